package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jask/painel/internal/browser"
)

const exportStamp = "20060102-150405"

// Export writes the rows whose ids are listed to a JSON file in dir and
// returns its path and the number of rows written. Row order is kept.
func Export(dir, entity string, rows []browser.Row, ids []browser.ID, now time.Time) (string, int, error) {
	want := make(map[browser.ID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]map[string]any, 0, len(ids))
	for _, r := range rows {
		if _, ok := want[r.ID]; !ok {
			continue
		}
		obj := make(map[string]any, len(r.Values)+1)
		for k, v := range r.Values {
			obj[k] = v
		}
		obj["id"] = r.ID.String()
		out = append(out, obj)
	}
	if len(out) == 0 {
		return "", 0, fmt.Errorf("export %s: %w", entity, browser.ErrNothingSelected)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("export %s: %w", entity, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("export %s: %w", entity, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", entity, now.Format(exportStamp)))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", 0, fmt.Errorf("export %s: %w", entity, err)
	}
	return path, len(out), nil
}
