// Package catalog declares the entities managed by the console: their
// columns, form fields, search filters, actions and demo rows. Definitions
// live in an embedded YAML document.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jask/painel/internal/access"
	"github.com/jask/painel/internal/browser"
	"github.com/jask/painel/internal/search"
)

//go:embed entities.yaml
var defaultDoc []byte

// OptionsFromPermissions fills a field's options with every permission the
// catalog knows about.
const OptionsFromPermissions = "permissions"

type Catalog struct {
	DefaultUser   string   `yaml:"default_user"`
	DefaultGrants []string `yaml:"default_grants"`
	Entities      []Entity `yaml:"entities"`

	inputs Registry
}

type Entity struct {
	Slug          string           `yaml:"slug"`
	Title         string           `yaml:"title"`
	Base          string           `yaml:"base"`
	Columns       []ColumnDef      `yaml:"columns"`
	Fields        []FieldDef       `yaml:"fields"`
	Filters       []FilterDef      `yaml:"filters"`
	DefaultFilter string           `yaml:"default_filter"`
	RowActions    []ActionDef      `yaml:"row_actions"`
	BulkActions   []ActionDef      `yaml:"bulk_actions"`
	DisableDelete bool             `yaml:"disable_delete"`
	DisableEdit   bool             `yaml:"disable_edit"`
	DisableView   bool             `yaml:"disable_view"`
	Seed          []map[string]any `yaml:"seed"`
}

type ColumnDef struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Type  string `yaml:"type"`
}

type OptionDef struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type FieldDef struct {
	Key         string      `yaml:"key"`
	Label       string      `yaml:"label"`
	Type        string      `yaml:"type"`
	Input       string      `yaml:"input"`
	Required    bool        `yaml:"required"`
	Disabled    bool        `yaml:"disabled"`
	Default     any         `yaml:"default"`
	Placeholder string      `yaml:"placeholder"`
	Helper      string      `yaml:"helper"`
	Options     []OptionDef `yaml:"options"`
	OptionsFrom string      `yaml:"options_from"`
}

type FilterDef struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Field string `yaml:"field"`
	Type  string `yaml:"type"`
}

// ActionDef is a row or bulk action. Kind names the handler the screen runs;
// Requires names the capability (preview or download) that enables it.
type ActionDef struct {
	Label       string `yaml:"label"`
	Icon        string `yaml:"icon"`
	Kind        string `yaml:"kind"`
	Requires    string `yaml:"requires"`
	MinSelected int    `yaml:"min_selected"`
}

const (
	ActionPreview = "preview"
	ActionExport  = "export"
)

var ErrUnknownEntity = errors.New("catalog: unknown entity")

// Default loads the embedded catalog with the built-in custom inputs.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultDoc), DefaultInputs())
}

// Load decodes and validates a catalog document.
func Load(r io.Reader, inputs Registry) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if inputs == nil {
		inputs = Registry{}
	}
	c.inputs = inputs
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	slugs := make(map[string]bool)
	for _, e := range c.Entities {
		if e.Slug == "" {
			return errors.New("catalog: entity without slug")
		}
		if slugs[e.Slug] {
			return fmt.Errorf("catalog: duplicate entity %q", e.Slug)
		}
		slugs[e.Slug] = true
		if strings.Count(e.Base, ":") != 1 {
			return fmt.Errorf("catalog: %s: base %q must be <domain>:<entity>", e.Slug, e.Base)
		}
		keys := make(map[string]bool)
		for _, f := range e.Fields {
			if f.Key == "" || keys[f.Key] {
				return fmt.Errorf("catalog: %s: empty or duplicate field key %q", e.Slug, f.Key)
			}
			keys[f.Key] = true
			if !validInputType(f.Type) {
				return fmt.Errorf("catalog: %s.%s: unknown type %q", e.Slug, f.Key, f.Type)
			}
			if f.Input != "" {
				if _, ok := c.inputs[f.Input]; !ok {
					return fmt.Errorf("catalog: %s.%s: unknown input %q", e.Slug, f.Key, f.Input)
				}
			}
			if f.OptionsFrom != "" && f.OptionsFrom != OptionsFromPermissions {
				return fmt.Errorf("catalog: %s.%s: unknown options source %q", e.Slug, f.Key, f.OptionsFrom)
			}
		}
		if e.DefaultFilter != "" && !hasFilter(e.Filters, e.DefaultFilter) {
			return fmt.Errorf("catalog: %s: default filter %q not declared", e.Slug, e.DefaultFilter)
		}
		for _, a := range append(append([]ActionDef(nil), e.RowActions...), e.BulkActions...) {
			switch a.Kind {
			case ActionPreview, ActionExport:
			default:
				return fmt.Errorf("catalog: %s: unknown action kind %q", e.Slug, a.Kind)
			}
			switch a.Requires {
			case "", "preview", "download":
			default:
				return fmt.Errorf("catalog: %s: action %q requires unknown capability %q", e.Slug, a.Label, a.Requires)
			}
		}
	}
	return nil
}

func validInputType(t string) bool {
	switch browser.InputType(t) {
	case "", browser.InputText, browser.InputNumber, browser.InputEmail, browser.InputPassword,
		browser.InputDate, browser.InputSelect, browser.InputMultiselect:
		return true
	}
	return false
}

func hasFilter(filters []FilterDef, id string) bool {
	for _, f := range filters {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Entity returns the entity with slug.
func (c *Catalog) Entity(slug string) (Entity, error) {
	for _, e := range c.Entities {
		if e.Slug == slug {
			return e, nil
		}
	}
	return Entity{}, fmt.Errorf("%w: %s", ErrUnknownEntity, slug)
}

func (c *Catalog) Slugs() []string {
	out := make([]string, len(c.Entities))
	for i, e := range c.Entities {
		out[i] = e.Slug
	}
	return out
}

func (c *Catalog) Bases() []string {
	out := make([]string, len(c.Entities))
	for i, e := range c.Entities {
		out[i] = e.Base
	}
	return out
}

// Permissions enumerates every concrete permission string the catalog can
// grant: each bare base plus each base with every known action, sorted.
func (c *Catalog) Permissions() []string {
	bases := c.Bases()
	out := append(access.Permissions(bases), bases...)
	sort.Strings(out)
	return out
}

// Modes resolves the access mode of every entity for perms, keyed by slug.
func (c *Catalog) Modes(perms access.Set) map[string]access.Mode {
	out := make(map[string]access.Mode, len(c.Entities))
	for _, e := range c.Entities {
		out[e.Slug] = access.Resolve(perms, e.Base)
	}
	return out
}

// BrowserColumns converts the column definitions.
func (e Entity) BrowserColumns() []browser.Column {
	out := make([]browser.Column, len(e.Columns))
	for i, col := range e.Columns {
		out[i] = browser.Column{Key: col.Key, Label: col.Label, DataType: browser.DataType(col.Type)}
		if out[i].DataType == "" {
			out[i].DataType = browser.DataText
		}
	}
	return out
}

// FormFields converts the field definitions, resolving custom inputs and
// option sources against c.
func (c *Catalog) FormFields(e Entity) []browser.FormField {
	out := make([]browser.FormField, len(e.Fields))
	for i, f := range e.Fields {
		ff := browser.FormField{
			Column:       browser.Column{Key: f.Key, Label: f.Label, DataType: browser.DataText},
			InputType:    browser.InputType(f.Type),
			DefaultValue: f.Default,
			Required:     f.Required,
			Disabled:     f.Disabled,
			HelperText:   f.Helper,
			Placeholder:  f.Placeholder,
		}
		for _, o := range f.Options {
			ff.Options = append(ff.Options, browser.Option{Value: o.Value, Label: o.Label})
		}
		if f.OptionsFrom == OptionsFromPermissions {
			for _, p := range c.Permissions() {
				ff.Options = append(ff.Options, browser.Option{Value: p})
			}
		}
		if fn, ok := c.inputs[f.Input]; ok && f.Input != "" {
			ff.Input = browser.Custom{Render: fn}
		}
		out[i] = ff
	}
	return out
}

func (e Entity) SearchFilters() []search.Filter {
	out := make([]search.Filter, len(e.Filters))
	for i, f := range e.Filters {
		out[i] = search.Filter{ID: f.ID, Label: f.Label, Field: f.Field, Type: f.Type, Page: e.Slug}
	}
	return out
}

// Actions builds the row and bulk actions for mode. run is called with the
// action definition and the ids it applies to.
func (e Entity) Actions(mode access.Mode, run func(ActionDef, []browser.ID)) (row, bulk []browser.Action) {
	build := func(defs []ActionDef) []browser.Action {
		out := make([]browser.Action, 0, len(defs))
		for _, d := range defs {
			allowed := true
			switch d.Requires {
			case "preview":
				allowed = access.CanPreview(mode)
			case "download":
				allowed = access.CanDownload(mode)
			}
			minSel := d.MinSelected
			out = append(out, browser.Action{
				Label: d.Label,
				Icon:  d.Icon,
				OnClick: func(ids []browser.ID) {
					if run != nil {
						run(d, ids)
					}
				},
				Disabled: func(ids []browser.ID) bool {
					return !allowed || len(ids) < minSel
				},
			})
		}
		return out
	}
	return build(e.RowActions), build(e.BulkActions)
}
