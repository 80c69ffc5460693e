package testdata

import (
	"context"
	"math/rand"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/painel/internal/catalog"
	"github.com/jask/painel/internal/database"
	"github.com/jask/painel/internal/database/repository"
)

func TestRecordFillsRequiredFields(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(7))
	cpf := regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)

	for _, e := range cat.Entities {
		for i := 0; i < 20; i++ {
			data := Record(cat, e, rng)
			for _, f := range e.Fields {
				if f.Required {
					assert.NotEmpty(t, data[f.Key], "%s.%s", e.Slug, f.Key)
				}
				if f.Input == "cpf" {
					assert.Regexp(t, cpf, data[f.Key])
				}
			}
		}
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "painel.db")
	require.NoError(t, database.RunMigrations(path))
	db, err := database.Open(path)
	require.NoError(t, err)
	defer db.Close()

	cat, err := catalog.Default()
	require.NoError(t, err)
	records := repository.NewRecordRepo(db)

	n, err := Generate(ctx, records, cat, 5, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 5*len(cat.Entities), n)

	count, err := records.Count(ctx, "clientes")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
