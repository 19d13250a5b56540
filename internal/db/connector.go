package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"erdsql/internal/introspect"
	"erdsql/pkg/config"
)

type Extractor interface {

	// Extract reads the catalog of an open database
	Extract(ctx context.Context, db *sql.DB) (introspect.Schema, error)
}

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Extractor{}
)

// Register makes an Extractor available under name.
func Register(name string, e Extractor) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(name)] = e
}

func lookup(name string) (Extractor, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	e, ok := dialects[name]
	return e, ok
}

// RegisteredDialects returns the registered dialect keys in sorted order.
func RegisteredDialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	keys := make([]string, 0, len(dialects))
	for k := range dialects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ConnectAndExtract opens driver/dsn, pings it and reads its catalog. The
// whole exchange is bounded by timeout.
func ConnectAndExtract(ctx context.Context, driver, dsn string, timeout time.Duration) (introspect.Schema, error) {
	driver = config.NormalizeDriver(driver)
	extractor, ok := lookup(driver)
	if !ok {
		return introspect.Schema{}, fmt.Errorf("dialect not registered: %q (available: %v)", driver, RegisteredDialects())
	}
	dbConn, err := sql.Open(driver, dsn)
	if err != nil {
		return introspect.Schema{}, err
	}
	defer dbConn.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		return introspect.Schema{}, fmt.Errorf("ping %s: %w", driver, err)
	}
	return extractor.Extract(ctx, dbConn)
}
