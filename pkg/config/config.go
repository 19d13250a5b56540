package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"erdsql/internal/schema"
)

type DBConfig struct {
	Type         string `yaml:"type" json:"type" mapstructure:"type"`
	Host         string `yaml:"host" json:"host" mapstructure:"host"`
	Port         int    `yaml:"port" json:"port" mapstructure:"port"`
	Username     string `yaml:"username" json:"username" mapstructure:"username"`
	Password     string `yaml:"password" json:"password" mapstructure:"password"`
	DatabaseName string `yaml:"database_name" json:"database_name" mapstructure:"database_name"`
	DSN          string `yaml:"dsn" json:"dsn" mapstructure:"dsn"` // optional explicit DSN
}

type ServerConfig struct {
	Port       int    `yaml:"port" json:"port" mapstructure:"port"`
	WebDir     string `yaml:"web_dir" json:"web_dir" mapstructure:"web_dir"`
	TimeoutSec int    `yaml:"timeout_sec" json:"timeout_sec" mapstructure:"timeout_sec"`
}

// AppConfig is shared by the HTTP server and the CLI. Layout controls where
// imported tables are placed; zero fields fall back to schema.DefaultGrid.
type AppConfig struct {
	Database DBConfig     `yaml:"database" json:"database" mapstructure:"database"`
	Server   ServerConfig `yaml:"server" json:"server" mapstructure:"server"`
	Layout   schema.Grid  `yaml:"layout" json:"layout" mapstructure:"layout"`
}

// Grid returns the configured layout with defaults filled in.
func (c AppConfig) Grid() schema.Grid {
	return c.Layout.OrDefault()
}

// LoadFile loads YAML config from path.
func LoadFile(path string) (AppConfig, error) {
	var cfg AppConfig
	f, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// NormalizeDriver maps common aliases to the database/sql driver names.
func NormalizeDriver(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "postgresql", "pg", "postgres":
		return "postgres"
	case "mysql", "mariadb":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	case "mssql", "sqlserver":
		return "sqlserver"
	case "godror", "oracle":
		return "godror"
	default:
		return strings.ToLower(d)
	}
}

// BuildDriverAndDSN produces a driver name and DSN string for supported DB types.
func BuildDriverAndDSN(db DBConfig) (driver string, dsn string, err error) {
	// If explicit DSN provided, user must also set Type to choose driver or we guess
	t := NormalizeDriver(db.Type)

	if db.DSN != "" {
		return t, db.DSN, nil
	}

	switch t {
	case "postgres":
		driver = "postgres"
		// simple URL form
		dsn = fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=disable",
			url.UserPassword(db.Username, db.Password).String(), db.Host, db.Port, db.DatabaseName)
	case "mysql":
		driver = "mysql"
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			db.Username, db.Password, db.Host, db.Port, db.DatabaseName)
	case "sqlite":
		driver = "sqlite"
		if db.DatabaseName == "" {
			return "", "", fmt.Errorf("sqlite needs a file path in database_name")
		}
		dsn = fmt.Sprintf("file:%s?mode=ro", db.DatabaseName)
	case "sqlserver":
		driver = "sqlserver"
		dsn = fmt.Sprintf("sqlserver://%s@%s:%d?database=%s",
			url.UserPassword(db.Username, db.Password).String(), db.Host, db.Port, url.QueryEscape(db.DatabaseName))
	case "godror":
		driver = "godror"
		// simple EZCONNECT style; may need adjustments per environment
		dsn = fmt.Sprintf("%s/%s@%s:%d/%s",
			db.Username, db.Password, db.Host, db.Port, db.DatabaseName)
	default:
		err = fmt.Errorf("unsupported database type: %s", db.Type)
	}
	return
}
