package testutil

import (
	"context"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresDSNEnv names the variable holding the PostgreSQL server used by tests
const PostgresDSNEnv = "DATABASE_URL"

// PostgresDSN returns a DSN pinned to a fresh schema on the server named by
// DATABASE_URL. The schema is dropped on cleanup. Skips the test when unset.
func PostgresDSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping PostgreSQL test", PostgresDSNEnv)
	}

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect to postgres: %v", err)
	}

	schema := pgx.Identifier{"nichefy_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")}.Sanitize()

	if _, err := conn.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		_ = conn.Close(ctx)
		t.Fatalf("create test schema: %v", err)
	}

	t.Cleanup(func() {
		if _, err := conn.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE"); err != nil {
			t.Logf("drop test schema: %v", err)
		}

		_ = conn.Close(context.Background())
	})

	return withSearchPath(dsn, strings.Trim(schema, `"`))
}

// withSearchPath adds a search_path runtime parameter to a URL or keyword/value DSN
func withSearchPath(dsn, schema string) string {
	if u, err := url.Parse(dsn); err == nil && (u.Scheme == "postgres" || u.Scheme == "postgresql") {
		q := u.Query()
		q.Set("search_path", schema)
		u.RawQuery = q.Encode()

		return u.String()
	}

	return dsn + " search_path=" + schema
}
