package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"erdsql/internal/db"
	"erdsql/internal/ddl"
	"erdsql/internal/logger"
)

func (c *cli) extractCmd() *cobra.Command {
	var (
		format  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Read the configured database into a diagram schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, dsn, err := c.connection()
			if err != nil {
				return err
			}
			cat, err := db.ConnectAndExtract(cmd.Context(), driver, dsn, timeout)
			if err != nil {
				return err
			}
			res := ddl.FromCatalog(cat, c.cfg.Grid())
			for _, w := range res.Warnings {
				logger.Warn("extract: %s", w)
			}
			logger.Info("extracted %d tables from %s", len(res.Schema.Tables), driver)
			return writeSchema(cmd.OutOrStdout(), res.Schema, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, yaml)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "connect timeout")
	return cmd
}

func (c *cli) applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <file.sql|schema.json>",
		Short: "Run DDL, or the DDL generated from a schema, against PostgreSQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, dsn, err := c.connection()
			if err != nil {
				return err
			}
			if driver != "postgres" {
				return fmt.Errorf("apply supports postgres only, got %s", driver)
			}

			var script string
			if strings.EqualFold(filepath.Ext(args[0]), ".json") {
				s, err := readSchema(cmd, args[0])
				if err != nil {
					return err
				}
				if err := s.Check(); err != nil {
					return err
				}
				script = ddl.GeneratePostgreSQL(s)
			} else {
				text, err := readInput(cmd, args[0])
				if err != nil {
					return err
				}
				script = string(text)
			}
			if strings.TrimSpace(script) == "" {
				return ddl.ErrEmptyScript
			}
			return db.Apply(cmd.Context(), dsn, script)
		},
	}
}
