package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/JurisCompare/internal/infrastructure/database/postgres"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL feed schema",
	}

	dsn := func(cmd *cobra.Command) (*CLIContext, string, error) {
		cc, err := GetCLIContext(cmd)
		if err != nil {
			return nil, "", err
		}
		if !cc.Config.Database.Enabled {
			return nil, "", errors.New(errors.ErrCodeConfigInvalid, "database is not enabled").WithDetail("set database.enabled and the connection settings")
		}
		return cc, postgres.DSN(cc.Config.Database), nil
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, url, err := dsn(cmd)
			if err != nil {
				return err
			}
			if err := cc.deps.Migrator.Up(url, cc.Config.Database.MigrationPath); err != nil {
				return err
			}
			PrintSuccess(cmd, "migrations applied")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 1 {
				return errors.New(errors.ErrCodeBadRequest, "--steps must be at least 1")
			}
			cc, url, err := dsn(cmd)
			if err != nil {
				return err
			}
			if err := cc.deps.Migrator.Down(url, cc.Config.Database.MigrationPath, steps); err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", steps))
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, url, err := dsn(cmd)
			if err != nil {
				return err
			}
			st, err := cc.deps.Migrator.Status(url, cc.Config.Database.MigrationPath)
			if err != nil {
				return err
			}
			if cc.OutputFormat == OutputJSON {
				return PrintResult(cmd, st)
			}
			return PrintResult(cmd, migrationView(st))
		},
	}

	force := &cobra.Command{
		Use:   "force VERSION",
		Short: "Set the schema version without running migrations and clear the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil || version < -1 {
				return errors.New(errors.ErrCodeBadRequest, "VERSION must be an integer >= -1").WithDetail("version=" + args[0])
			}
			cc, url, err := dsn(cmd)
			if err != nil {
				return err
			}
			if err := cc.deps.Migrator.Force(url, cc.Config.Database.MigrationPath, version); err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("schema version forced to %d", version))
			return nil
		},
	}

	cmd.AddCommand(up, down, status, force)
	return cmd
}

type migrationView postgres.MigrationState

func (v migrationView) Text() string {
	state := "clean"
	if v.Dirty {
		state = "dirty"
	}
	return fmt.Sprintf("version %d (%s)", v.Version, state)
}

func (v migrationView) TableHeaders() []string { return []string{"Version", "Dirty"} }

func (v migrationView) TableRows() [][]string {
	return [][]string{{strconv.FormatUint(uint64(v.Version), 10), strconv.FormatBool(v.Dirty)}}
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the Redis search cache",
	}

	var prefix string
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached entries under a key prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			if !cc.Config.Redis.Enabled {
				return errors.New(errors.ErrCodeConfigInvalid, "redis is not enabled").WithDetail("set redis.enabled and redis.addr")
			}
			if prefix == "" {
				prefix = cc.Config.Redis.KeyPrefix
			}
			purger, closer, err := cc.deps.NewCachePurger(ctx, cc)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer()
			}
			n, err := purger.DeleteByPrefix(ctx, prefix)
			if err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("deleted %d key(s) under %q", n, prefix))
			return nil
		},
	}
	purge.Flags().StringVar(&prefix, "prefix", "", "key prefix to purge (default: redis.key_prefix)")
	cmd.AddCommand(purge)
	return cmd
}

//Personal.AI order the ending
