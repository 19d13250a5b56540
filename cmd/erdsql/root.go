package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"erdsql/internal/logger"
	"erdsql/pkg/config"
)

// envKeys are the settings that can come from ERDSQL_* variables alone.
var envKeys = []string{
	"database.type", "database.host", "database.port", "database.username",
	"database.password", "database.database_name", "database.dsn",
	"layout.start_x", "layout.start_y", "layout.columns_per_row", "layout.x_gap", "layout.y_gap",
}

type cli struct {
	v       *viper.Viper
	cfgFile string
	debug   bool
	cfg     config.AppConfig
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "erdsql",
		Short: "Convert between SQL DDL and ER diagram schemas",
		Long: `erdsql imports CREATE TABLE / ALTER TABLE scripts into the diagram
schema model, generates PostgreSQL DDL and Mermaid diagrams from it, and reads
or writes live databases.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./erdsql.yaml)")
	root.PersistentFlags().String("dsn", "", "database source name")
	root.PersistentFlags().String("driver", "", "database type (postgres, mysql, sqlite, sqlserver, godror)")
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "verbose development logging")

	_ = c.v.BindPFlag("database.dsn", root.PersistentFlags().Lookup("dsn"))
	_ = c.v.BindPFlag("database.type", root.PersistentFlags().Lookup("driver"))

	root.AddCommand(
		c.importCmd(),
		c.exportCmd(),
		c.validateCmd(),
		c.extractCmd(),
		c.applyCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if c.debug {
		z := zap.NewDevelopmentConfig()
		// stdout carries command output
		z.OutputPaths = []string{"stderr"}
		l, err := z.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Set(l)
	} else if err := logger.Init(false); err != nil {
		return err
	}

	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env")
	}
	return c.loadConfig()
}

// loadConfig reads the config file and ERDSQL_* variables. Flags win over
// both.
func (c *cli) loadConfig() error {
	v := c.v
	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
	} else {
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
		v.AddConfigPath(".")
		v.SetConfigName("erdsql")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("ERDSQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		logger.Debug("using config file %s", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&c.cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// connection returns the configured driver and DSN.
func (c *cli) connection() (driver, dsn string, err error) {
	if c.cfg.Database.Type == "" {
		return "", "", errors.New("no database configured; set --driver and --dsn or the database section of the config file")
	}
	return config.BuildDriverAndDSN(c.cfg.Database)
}

// readInput reads a named file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}
