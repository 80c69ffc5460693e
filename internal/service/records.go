package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jask/painel/internal/browser"
	"github.com/jask/painel/internal/database/repository"
)

// CreatedKey is the derived column holding a record's creation date.
const CreatedKey = "criado_em"

// EntityService persists the rows of one console entity.
type EntityService struct {
	Records *repository.RecordRepo
	Log     *slog.Logger
}

func (s *EntityService) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

// Load returns the entity's rows in creation order.
func (s *EntityService) Load(ctx context.Context, entity string) ([]browser.Row, error) {
	if s.Records == nil {
		return nil, fmt.Errorf("load %s: records not configured", entity)
	}
	list, err := s.Records.List(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", entity, err)
	}
	rows := make([]browser.Row, len(list))
	for i, rec := range list {
		rows[i] = toRow(rec)
	}
	return rows, nil
}

// Find reads one record fresh from storage. A record deleted elsewhere
// yields an error satisfying IsNotFound.
func (s *EntityService) Find(ctx context.Context, entity string, id browser.ID) (browser.Row, error) {
	rec, err := s.Records.Get(ctx, entity, id.String())
	if err != nil {
		return browser.Row{}, fmt.Errorf("find %s %s: %w", entity, id, err)
	}
	if rec == nil {
		return browser.Row{}, fmt.Errorf("find %s %s: %w", entity, id, repository.ErrNotFound)
	}
	return toRow(*rec), nil
}

func toRow(rec repository.Record) browser.Row {
	values := make(map[string]any, len(rec.Data)+1)
	for k, v := range rec.Data {
		values[k] = v
	}
	values[CreatedKey] = rec.CreatedAt
	return browser.Row{ID: browser.StringID(rec.ID), Values: values}
}

// storable drops derived columns from form values.
func storable(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if k == CreatedKey {
			continue
		}
		out[k] = v
	}
	return out
}

// Add stores values as a new record and returns its id.
func (s *EntityService) Add(ctx context.Context, entity string, values map[string]any) (string, error) {
	id := uuid.NewString()
	rec := repository.Record{ID: id, Entity: entity, Data: storable(values)}
	if err := s.Records.Insert(ctx, rec); err != nil {
		return "", fmt.Errorf("add %s: %w", entity, err)
	}
	s.logger().Info("record added", "entity", entity, "id", id)
	return id, nil
}

func (s *EntityService) Edit(ctx context.Context, entity string, id browser.ID, values map[string]any) error {
	if err := s.Records.Update(ctx, entity, id.String(), storable(values)); err != nil {
		return fmt.Errorf("edit %s %s: %w", entity, id, err)
	}
	s.logger().Info("record updated", "entity", entity, "id", id.String())
	return nil
}

func (s *EntityService) Delete(ctx context.Context, entity string, id browser.ID) error {
	if err := s.Records.Delete(ctx, entity, id.String()); err != nil {
		return fmt.Errorf("delete %s %s: %w", entity, id, err)
	}
	s.logger().Info("record deleted", "entity", entity, "id", id.String())
	return nil
}

// BulkDelete removes ids atomically. Ids that no longer exist are skipped.
func (s *EntityService) BulkDelete(ctx context.Context, entity string, ids []browser.ID) (int64, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	n, err := s.Records.DeleteMany(ctx, entity, keys)
	if err != nil {
		return 0, fmt.Errorf("bulk delete %s: %w", entity, err)
	}
	s.logger().Info("records deleted", "entity", entity, "count", n, "requested", len(ids))
	return n, nil
}

// Callbacks are the browser collaborator functions for one entity.
type Callbacks struct {
	OnAdd        func(ctx context.Context, values map[string]any) error
	OnEdit       func(ctx context.Context, id browser.ID, values map[string]any) error
	OnDelete     func(ctx context.Context, id browser.ID) error
	OnBulkDelete func(ctx context.Context, ids []browser.ID) error
}

// Bind returns collaborator callbacks scoped to entity.
func (s *EntityService) Bind(entity string) Callbacks {
	return Callbacks{
		OnAdd: func(ctx context.Context, values map[string]any) error {
			_, err := s.Add(ctx, entity, values)
			return err
		},
		OnEdit: func(ctx context.Context, id browser.ID, values map[string]any) error {
			return s.Edit(ctx, entity, id, values)
		},
		OnDelete: func(ctx context.Context, id browser.ID) error {
			return s.Delete(ctx, entity, id)
		},
		OnBulkDelete: func(ctx context.Context, ids []browser.ID) error {
			_, err := s.BulkDelete(ctx, entity, ids)
			return err
		},
	}
}

// Apply copies the callbacks onto p.
func (c Callbacks) Apply(p *browser.Props) {
	p.OnAdd = c.OnAdd
	p.OnEdit = c.OnEdit
	p.OnDelete = c.OnDelete
	p.OnBulkDelete = c.OnBulkDelete
}

// Counts loads the number of records of each entity concurrently.
func (s *EntityService) Counts(ctx context.Context, entities []string) (map[string]int, error) {
	counts := make([]int, len(entities))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, e := range entities {
		g.Go(func() error {
			n, err := s.Records.Count(ctx, e)
			if err != nil {
				return fmt.Errorf("count %s: %w", e, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(entities))
	for i, e := range entities {
		out[e] = counts[i]
	}
	return out, nil
}

// IsNotFound reports whether err means the record vanished underneath the caller.
func IsNotFound(err error) bool { return errors.Is(err, repository.ErrNotFound) }
