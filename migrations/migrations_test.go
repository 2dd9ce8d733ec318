package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := fs.Glob(files, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestInitSchemaGuardsStock(t *testing.T) {
	body, err := fs.ReadFile(files, "0001_init.up.sql")
	require.NoError(t, err)

	schema := string(body)
	assert.Contains(t, schema, "CHECK (quantity >= 0)")
	assert.Contains(t, schema, "UNIQUE (name, brand_id)")
	assert.Contains(t, schema, "(medicine_id IS NULL) <> (product_id IS NULL)")
}
