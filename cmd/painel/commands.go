package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/painel/internal/access"
	"github.com/jask/painel/internal/catalog"
	"github.com/jask/painel/internal/config"
	"github.com/jask/painel/internal/database"
	"github.com/jask/painel/internal/database/repository"
	"github.com/jask/painel/internal/service"
	"github.com/jask/painel/internal/testdata"
)

func newPermsCmd(g *globals) *cobra.Command {
	var lint, all bool
	cmd := &cobra.Command{
		Use:   "perms",
		Short: "Show the access mode of every entity for the acting user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			db, err := g.openDB(ctx, cat)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewPermissionRepo(db)
			svc := &service.PermissionService{Repo: repo, Catalog: cat}
			out := cmd.OutOrStdout()
			if all {
				// stored grants only; configured grants belong to the acting user
				users, err := repo.Users(ctx)
				if err != nil {
					return err
				}
				for i, u := range users {
					modes, err := svc.Modes(ctx, u, nil, "")
					if err != nil {
						return err
					}
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "user: %s\n\n", u)
					printModes(out, cat, modes)
				}
				return nil
			}

			auth := g.cfg.Auth
			modes, err := svc.Modes(ctx, auth.User, auth.Grants, auth.Mode)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "user: %s\n\n", auth.User)
			printModes(out, cat, modes)

			if !lint {
				return nil
			}
			findings, err := svc.Findings(ctx, auth.User, auth.Grants)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			if len(findings) == 0 {
				fmt.Fprintln(out, "no problems found")
				return nil
			}
			for _, f := range findings {
				fmt.Fprintln(out, "  "+f.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&lint, "lint", false, "also report grants no entity reads")
	cmd.Flags().BoolVar(&all, "all", false, "show every user with stored grants")
	return cmd
}

func newGrantCmd(g *globals) *cobra.Command {
	var revoke bool
	cmd := &cobra.Command{
		Use:   "grant USER PERMISSION...",
		Short: "Store permissions for a user; patterns expand against the catalog",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			db, err := g.openDB(ctx, cat)
			if err != nil {
				return err
			}
			defer db.Close()

			user := args[0]
			set, unmatched, err := access.ExpandGrants(args[1:], cat.Permissions())
			if err != nil {
				return err
			}
			if len(unmatched) > 0 {
				return fmt.Errorf("patterns match nothing: %s", strings.Join(unmatched, ", "))
			}
			repo := repository.NewPermissionRepo(db)
			if revoke {
				err = repo.Revoke(ctx, user, set.Slice()...)
			} else {
				err = repo.Grant(ctx, user, set.Slice()...)
			}
			if err != nil {
				return fmt.Errorf("update %s: %w", user, err)
			}

			stored, err := repo.ForUser(ctx, user)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d permissions\n", user, len(stored))
			for _, p := range stored {
				fmt.Fprintln(out, "  "+p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "remove the permissions instead")
	return cmd
}

func newConfigCmd(g *globals) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the effective configuration. With --write it is saved to the config file, flag overrides included.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			c := g.cfg
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "file\t%s\n", config.Path())
			fmt.Fprintf(tw, "database.path\t%s\n", c.Database.Path)
			fmt.Fprintf(tw, "auth.user\t%s\n", c.Auth.User)
			fmt.Fprintf(tw, "auth.grants\t%s\n", strings.Join(c.Auth.Grants, ", "))
			fmt.Fprintf(tw, "auth.mode\t%s\n", c.Auth.Mode)
			fmt.Fprintf(tw, "ui.card_breakpoint\t%d\n", c.UI.CardBreakpoint)
			fmt.Fprintf(tw, "ui.confirm_window\t%s\n", c.UI.ConfirmWindow)
			fmt.Fprintf(tw, "ui.notify_timeout\t%s\n", c.UI.NotifyTimeout)
			fmt.Fprintf(tw, "log.level\t%s\n", c.Log.Level)
			fmt.Fprintf(tw, "log.file\t%s\n", c.Log.File)
			if err := tw.Flush(); err != nil {
				return err
			}
			if !write {
				return nil
			}
			if err := config.Save(c); err != nil {
				return err
			}
			fmt.Fprintln(out, "wrote", config.Path())
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save the effective configuration")
	return cmd
}

func printModes(w io.Writer, cat *catalog.Catalog, modes map[string]access.Mode) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tBASE\tMODE")
	for _, e := range cat.Entities {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Slug, e.Base, modes[e.Slug])
	}
	_ = tw.Flush()
}

func newMigrateCmd(g *globals) *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.cfg.Database.Path
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			run := database.RunMigrations
			if down {
				run = database.Rollback
			}
			if err := run(path); err != nil {
				return err
			}
			version, dirty, err := database.SchemaVersion(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d (dirty=%t)\n", path, version, dirty)
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "revert the last migration")
	return cmd
}

func newSeedCmd(g *globals) *cobra.Command {
	var fake int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Restore missing demo rows and the default user's grants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			db, err := g.openDB(ctx, cat)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Seed(ctx, db, cat); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "seeded", g.cfg.Database.Path)
			if fake <= 0 {
				return nil
			}
			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			n, err := testdata.Generate(ctx, repository.NewRecordRepo(db), cat, fake, rng)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "generated %d records\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&fake, "fake", 0, "also generate this many synthetic records per entity")
	return cmd
}
