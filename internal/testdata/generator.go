// Package testdata fills a database with synthetic catalog records for demos
// and load testing the browser.
package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/painel/internal/catalog"
	"github.com/jask/painel/internal/database/repository"
)

var (
	firstNames = []string{"Ana", "Bruno", "Carla", "Diego", "Elisa", "Fábio", "Gabriela", "Heitor", "Isabel", "João"}
	lastNames  = []string{"Souza", "Lima", "Mendes", "Alves", "Prado", "Rocha", "Barros", "Teixeira"}
	cities     = []string{"São Paulo", "Rio de Janeiro", "Curitiba", "Recife", "Porto Alegre", "Belo Horizonte"}
)

var digitCounts = map[string]int{"cpf": 11, "phone": 11, "cep": 8, "date_br": 8}

// Generate inserts n synthetic records for every catalog entity and returns
// how many were written.
func Generate(ctx context.Context, records *repository.RecordRepo, cat *catalog.Catalog, n int, rng *rand.Rand) (int, error) {
	written := 0
	for _, e := range cat.Entities {
		for i := 0; i < n; i++ {
			rec := repository.Record{ID: uuid.NewString(), Entity: e.Slug, Data: Record(cat, e, rng)}
			if err := records.Insert(ctx, rec); err != nil {
				return written, fmt.Errorf("generate %s: %w", e.Slug, err)
			}
			written++
		}
	}
	return written, nil
}

// Record builds one plausible set of values for e's fields. Every required
// field is filled.
func Record(cat *catalog.Catalog, e catalog.Entity, rng *rand.Rand) map[string]any {
	data := make(map[string]any, len(e.Fields))
	name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
	for _, f := range e.Fields {
		options := optionValues(cat, f)
		switch {
		case f.Type == "multiselect":
			if len(options) == 0 {
				continue
			}
			k := 1 + rng.Intn(min(3, len(options)))
			picked := make([]string, 0, k)
			for _, j := range rng.Perm(len(options))[:k] {
				picked = append(picked, options[j])
			}
			data[f.Key] = picked
		case f.Type == "select" && len(options) > 0:
			data[f.Key] = options[rng.Intn(len(options))]
		case digitCounts[f.Input] > 0:
			data[f.Key] = format(f.Input, digits(rng, digitCounts[f.Input]))
		case f.Type == "email":
			data[f.Key] = strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
		case f.Type == "number":
			data[f.Key] = rng.Intn(1000)
		case f.Key == "nome" || f.Key == "titulo":
			data[f.Key] = name
		case f.Key == "cidade":
			data[f.Key] = cities[rng.Intn(len(cities))]
		case f.Required:
			data[f.Key] = fmt.Sprintf("%s %d", f.Label, rng.Intn(10000))
		}
	}
	return data
}

func optionValues(cat *catalog.Catalog, f catalog.FieldDef) []string {
	if f.OptionsFrom == catalog.OptionsFromPermissions {
		return cat.Permissions()
	}
	out := make([]string, len(f.Options))
	for i, o := range f.Options {
		out[i] = o.Value
	}
	return out
}

func digits(rng *rand.Rand, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + rng.Intn(10)))
	}
	return b.String()
}

func format(input, d string) string {
	switch input {
	case "cpf":
		return catalog.FormatCPF(d)
	case "phone":
		return catalog.FormatPhone(d)
	case "cep":
		return catalog.FormatCEP(d)
	case "date_br":
		// day and month stay in range
		return catalog.FormatDateBR(fmt.Sprintf("%02d%02d19%s", 1+int(d[0]-'0')*2, 1+int(d[1]-'0')%12, d[2:4]))
	}
	return d
}
