package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"erdsql/internal/db"
	_ "erdsql/internal/db/extractors"
	"erdsql/internal/logger"
	"erdsql/internal/server"
	"erdsql/pkg/config"
)

var (
	defaultPort    = 8080
	defaultTimeout = 10
)

func main() {
	// flags
	cfgPath := flag.String("config", filepath.Join(".", "configs", "example.yaml"), "path to config YAML")
	driverFlag := flag.String("driver", "", "db driver override (postgres,mysql,sqlite,sqlserver,godror)")
	dsnFlag := flag.String("dsn", "", "dsn override")
	port := flag.Int("port", 0, "http port (overrides config, default"+fmt.Sprintf(" %d)", defaultPort))
	timeout := flag.Int("timeout", 0, "db connect timeout seconds"+fmt.Sprintf(" (default %d)", defaultTimeout))
	webdir := flag.String("web", "", "web ui directory (default ./web)")
	debug := flag.Bool("debug", false, "verbose development logging")
	flag.Parse()

	if err := logger.Init(*debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err == nil {
		logger.Info("loaded .env")
	}

	// attempt to load config file (optional)
	var appCfg config.AppConfig
	logger.Info("config file %s", *cfgPath)
	if c, err := config.LoadFile(*cfgPath); err == nil {
		appCfg = c
	} else {
		logger.Error("error reading config file: %v", err)
	}

	// allow CLI overrides
	if *driverFlag != "" && *dsnFlag != "" {
		appCfg.Database = config.DBConfig{Type: *driverFlag, DSN: *dsnFlag}
	}

	*port = cmp.Or(*port, appCfg.Server.Port, defaultPort)
	*timeout = cmp.Or(*timeout, appCfg.Server.TimeoutSec, defaultTimeout)
	*webdir = cmp.Or(*webdir, appCfg.Server.WebDir, filepath.Join(".", "web"))

	srv := server.New(appCfg, time.Duration(*timeout)*time.Second)
	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      srv.Router(*webdir),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	go func() {
		logger.Info("listening on %s, serving %s", httpSrv.Addr, *webdir)
		logger.Info("registered dialects: %v", db.RegisteredDialects())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown: %v", err)
	}
}
