package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jask/painel/internal/access"
	"github.com/jask/painel/internal/catalog"
	"github.com/jask/painel/internal/database/repository"
)

// PermissionService resolves the acting user's access modes.
type PermissionService struct {
	Repo    *repository.PermissionRepo
	Catalog *catalog.Catalog
}

// Grants returns the user's effective permission set. Configured grants,
// when present, replace the stored ones. Glob patterns are expanded against
// the catalog.
func (s *PermissionService) Grants(ctx context.Context, user string, configured []string) (access.Set, error) {
	set, findings, err := s.expand(ctx, user, configured)
	if err != nil {
		return nil, err
	}
	for _, f := range findings {
		slog.Warn("suspicious permission", "user", user, "finding", f.String())
	}
	return set, nil
}

// Findings lists the user's grants that will never take effect: patterns
// matching no known permission followed by Lint's findings.
func (s *PermissionService) Findings(ctx context.Context, user string, configured []string) ([]access.Finding, error) {
	_, findings, err := s.expand(ctx, user, configured)
	return findings, err
}

func (s *PermissionService) expand(ctx context.Context, user string, configured []string) (access.Set, []access.Finding, error) {
	raw := configured
	if len(raw) == 0 && s.Repo != nil {
		stored, err := s.Repo.ForUser(ctx, user)
		if err != nil {
			return nil, nil, fmt.Errorf("permissions for %s: %w", user, err)
		}
		raw = stored
	}
	set, unmatched, err := access.ExpandGrants(raw, s.Catalog.Permissions())
	if err != nil {
		return nil, nil, fmt.Errorf("permissions for %s: %w", user, err)
	}
	findings := make([]access.Finding, 0, len(unmatched))
	for _, p := range unmatched {
		findings = append(findings, access.Finding{Permission: p, Problem: "pattern matches nothing"})
	}
	return set, append(findings, access.Lint(set, s.Catalog.Bases())...), nil
}

// Modes resolves every entity's mode for the user. A non-empty override
// (full, read-only or hidden) applies to all entities.
func (s *PermissionService) Modes(ctx context.Context, user string, configured []string, override string) (map[string]access.Mode, error) {
	if override != "" {
		m, err := access.ParseMode(override)
		if err != nil {
			return nil, err
		}
		out := make(map[string]access.Mode, len(s.Catalog.Entities))
		for _, e := range s.Catalog.Entities {
			out[e.Slug] = m
		}
		return out, nil
	}
	set, err := s.Grants(ctx, user, configured)
	if err != nil {
		return nil, err
	}
	return s.Catalog.Modes(set), nil
}
