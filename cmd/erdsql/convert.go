package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"erdsql/internal/ddl"
	"erdsql/internal/logger"
	"erdsql/internal/schema"
)

func (c *cli) importCmd() *cobra.Command {
	var (
		format    string
		mergeInto string
	)
	cmd := &cobra.Command{
		Use:   "import <file.sql|->",
		Short: "Parse a DDL script into a diagram schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			grid := c.cfg.Grid()
			res := ddl.Parse(string(text), grid)
			for _, w := range res.Warnings {
				logger.Warn("import: %s", w)
			}

			out := res.Schema
			if mergeInto != "" {
				base, err := readSchema(cmd, mergeInto)
				if err != nil {
					return err
				}
				out = schema.Merge(base, res.Schema, grid.XGap)
			}
			logger.Info("imported %d tables and %d relations", len(res.Schema.Tables), len(res.Schema.Relations))
			return writeSchema(cmd.OutOrStdout(), out, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, yaml)")
	cmd.Flags().StringVar(&mergeInto, "merge-into", "", "schema JSON to merge the imported tables into")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		format string
		check  bool
	)
	cmd := &cobra.Command{
		Use:   "export <schema.json|->",
		Short: "Generate PostgreSQL DDL or a Mermaid diagram from a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readSchema(cmd, args[0])
			if err != nil {
				return err
			}
			if err := s.Check(); err != nil {
				return err
			}

			var out string
			switch strings.ToLower(format) {
			case "postgres", "postgresql", "sql":
				out = ddl.GeneratePostgreSQL(s)
				if check {
					if err := ddl.Validate(out); err != nil {
						return fmt.Errorf("generated DDL failed validation: %w", err)
					}
				}
			case "mermaid":
				out = ddl.GenerateMermaid(s)
			default:
				return fmt.Errorf("unsupported format: %q", format)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "postgres", "output format (postgres, mermaid)")
	cmd.Flags().BoolVar(&check, "check", false, "parse the generated DDL with the PostgreSQL grammar")
	return cmd
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.sql|->",
		Short: "Check a DDL script against the PostgreSQL grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if err := ddl.Validate(string(text)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func readSchema(cmd *cobra.Command, name string) (schema.DatabaseSchema, error) {
	b, err := readInput(cmd, name)
	if err != nil {
		return schema.DatabaseSchema{}, err
	}
	var s schema.DatabaseSchema
	if err := json.Unmarshal(b, &s); err != nil {
		return schema.DatabaseSchema{}, fmt.Errorf("decode schema %s: %w", name, err)
	}
	return s, nil
}

func writeSchema(w io.Writer, s schema.DatabaseSchema, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %q", format)
	}
}
