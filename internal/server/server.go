// Package server exposes the importer, exporters and catalog extraction
// over a small JSON API and serves the diagram web UI.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"erdsql/internal/db"
	"erdsql/internal/ddl"
	"erdsql/internal/introspect"
	"erdsql/internal/logger"
	"erdsql/internal/schema"
	"erdsql/pkg/config"
)

// ExtractFunc reads a live catalog; db.ConnectAndExtract in production.
type ExtractFunc func(ctx context.Context, driver, dsn string, timeout time.Duration) (introspect.Schema, error)

type Server struct {
	mu      sync.RWMutex
	cfg     config.AppConfig
	driver  string
	dsn     string
	timeout time.Duration
	extract ExtractFunc
}

// New returns a server for cfg. The configured database, if any, becomes
// the active connection.
func New(cfg config.AppConfig, timeout time.Duration) *Server {
	s := &Server{cfg: cfg, timeout: timeout, extract: db.ConnectAndExtract}
	if cfg.Database.Type != "" {
		if driver, dsn, err := config.BuildDriverAndDSN(cfg.Database); err == nil {
			s.SetActive(driver, dsn)
		} else {
			logger.Error("error building DSN: %v", err)
		}
	}
	return s
}

// WithExtractor replaces the catalog reader.
func (s *Server) WithExtractor(fn ExtractFunc) *Server {
	s.extract = fn
	return s
}

// SetActive sets the active database connection.
func (s *Server) SetActive(driver, dsn string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.driver, s.dsn = driver, dsn
}

// Active returns the active database connection.
func (s *Server) Active() (driver, dsn string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.driver, s.dsn
}

func (s *Server) appConfig() config.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Router builds the gin engine. Everything outside /api is served from
// webDir when it is set.
func (s *Server) Router(webDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), cors.Default())

	api := r.Group("/api")
	{
		api.GET("/getConnect", s.getConnect)
		api.POST("/connect", s.connect)
		api.GET("/schema", s.currentSchema)
		api.POST("/import", s.importSQL)
		api.POST("/export", s.export)
		api.POST("/validate", s.validate)
	}

	if webDir != "" {
		files := http.FileServer(http.Dir(webDir))
		r.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.String(http.StatusNotFound, "not found")
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	}
	return r
}

// getConnect returns the configured connection parameters.
func (s *Server) getConnect(c *gin.Context) {
	d := s.appConfig().Database
	d.Type = config.NormalizeDriver(d.Type)
	c.JSON(http.StatusOK, gin.H{"ok": true, "config": d})
}

// connect tests posted connection parameters and makes them active.
func (s *Server) connect(c *gin.Context) {
	var req config.DBConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	driver, dsn, err := config.BuildDriverAndDSN(req)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.load(c.Request.Context(), driver, dsn)
	if err != nil {
		c.String(http.StatusInternalServerError, "connection failed: "+err.Error())
		return
	}

	s.mu.Lock()
	s.cfg.Database = req
	s.driver, s.dsn = driver, dsn
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"ok": true, "schema": res.Schema, "warnings": warnings(res)})
}

// currentSchema re-reads the active connection.
func (s *Server) currentSchema(c *gin.Context) {
	driver, dsn := s.Active()
	if driver == "" || dsn == "" {
		c.String(http.StatusBadRequest, "no active connection; POST /api/connect to create one")
		return
	}
	res, err := s.load(c.Request.Context(), driver, dsn)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to extract schema: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, res.Schema)
}

func (s *Server) load(ctx context.Context, driver, dsn string) (ddl.Result, error) {
	cat, err := s.extract(ctx, driver, dsn, s.timeout)
	if err != nil {
		return ddl.Result{}, err
	}
	return ddl.FromCatalog(cat, s.appConfig().Grid()), nil
}

type importRequest struct {
	SQL     string                 `json:"sql"`
	Mode    string                 `json:"mode"`
	Current *schema.DatabaseSchema `json:"current"`
}

// importSQL parses a DDL script and either replaces or merges into current.
func (s *Server) importSQL(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	mode, err := schema.ParseImportMode(req.Mode)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	grid := s.appConfig().Grid()
	res := ddl.Parse(req.SQL, grid)
	for _, w := range res.Warnings {
		logger.Warn("import: %s", w)
	}
	current := schema.Empty()
	if req.Current != nil {
		current = *req.Current
	}
	out := mode.Apply(current, res.Schema, grid.XGap)
	logger.Debug("imported %d tables and %d relations (%s)", len(res.Schema.Tables), len(res.Schema.Relations), mode)

	c.JSON(http.StatusOK, gin.H{"ok": true, "schema": out, "warnings": warnings(res)})
}

type exportRequest struct {
	Schema schema.DatabaseSchema `json:"schema"`
	Format string                `json:"format"`
}

// export renders a schema as PostgreSQL DDL or a Mermaid diagram.
func (s *Server) export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := req.Schema.Check(); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	var out string
	switch strings.ToLower(req.Format) {
	case "", "postgres", "postgresql", "sql":
		out = ddl.GeneratePostgreSQL(req.Schema)
	case "mermaid":
		out = ddl.GenerateMermaid(req.Schema)
	default:
		c.String(http.StatusBadRequest, fmt.Sprintf("unsupported format: %q", req.Format))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sql": out})
}

// validate checks a script with the full PostgreSQL grammar.
func (s *Server) validate(c *gin.Context) {
	var req struct {
		SQL string `json:"sql"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := ddl.Validate(req.SQL); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func warnings(res ddl.Result) []ddl.Warning {
	if res.Warnings == nil {
		return []ddl.Warning{}
	}
	return res.Warnings
}
