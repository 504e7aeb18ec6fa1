package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert session: %w", &pgconn.PgError{Code: "23505", ConstraintName: "inventory_sessions_reference_key"})
	assert.True(t, isUniqueViolation(wrapped))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("connection reset")))
}

func TestNonNilYDeref(t *testing.T) {
	assert.NotNil(t, nonNil(nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))

	s := "sup"
	assert.Equal(t, "sup", deref(&s))
	assert.Equal(t, "", deref(nil))
}

func TestSchemaEmbebido(t *testing.T) {
	for _, table := range []string{"inventory_sessions", "inventory_lines", "inventory_movements", "products"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schemaSQL, "UNIQUE (session_id, product_id)")
}
