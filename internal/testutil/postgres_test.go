package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithSearchPath(t *testing.T) {
	tests := []struct {
		name     string
		dsn      string
		expected string
	}{
		{
			name:     "url",
			dsn:      "postgres://u:p@localhost:5432/db",
			expected: "postgres://u:p@localhost:5432/db?search_path=s1",
		},
		{
			name:     "url with query",
			dsn:      "postgresql://localhost/db?sslmode=disable",
			expected: "postgresql://localhost/db?search_path=s1&sslmode=disable",
		},
		{
			name:     "keyword value",
			dsn:      "host=localhost dbname=db",
			expected: "host=localhost dbname=db search_path=s1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, withSearchPath(tt.dsn, "s1"))
		})
	}
}
