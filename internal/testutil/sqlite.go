package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
)

// SQLiteDSN returns a DSN for a fresh SQLite database file inside the test's temp dir
func SQLiteDSN(t *testing.T) string {
	t.Helper()

	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.Join(t.TempDir(), "nichefy.db"))
}
