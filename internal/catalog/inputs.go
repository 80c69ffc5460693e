package catalog

import (
	"github.com/jask/painel/internal/browser"
	"github.com/jask/painel/internal/form"
)

// Registry maps the input names used in the catalog to custom renderers.
type Registry map[string]browser.RenderFunc

// DefaultInputs returns the Brazilian document and contact formatters.
func DefaultInputs() Registry {
	return Registry{
		"phone":   masked(11, FormatPhone),
		"cpf":     masked(11, FormatCPF),
		"cep":     masked(8, FormatCEP),
		"date_br": masked(8, FormatDateBR),
	}
}

func masked(maxDigits int, format func(string) string) browser.RenderFunc {
	return func(p browser.CustomProps) browser.Control {
		return form.NewMasked(p, maxDigits, format)
	}
}

// FormatPhone formats up to 11 digits as (DD) NNNN-NNNN or (DD) NNNNN-NNNN.
func FormatPhone(d string) string {
	switch {
	case d == "":
		return ""
	case len(d) <= 2:
		return "(" + d
	}
	ddd, rest := d[:2], d[2:]
	split := 4
	if len(rest) > 8 {
		split = 5
	}
	if len(rest) <= split {
		return "(" + ddd + ") " + rest
	}
	return "(" + ddd + ") " + rest[:split] + "-" + rest[split:]
}

// FormatCPF formats as NNN.NNN.NNN-NN.
func FormatCPF(d string) string { return group(d, []int{3, 3, 3, 2}, "..-") }

// FormatCEP formats as NNNNN-NNN.
func FormatCEP(d string) string { return group(d, []int{5, 3}, "-") }

// FormatDateBR formats as DD/MM/AAAA.
func FormatDateBR(d string) string { return group(d, []int{2, 2, 4}, "//") }

// group writes d in chunks of sizes, separated by the matching byte of seps.
// Separators only appear once the next chunk has started.
func group(d string, sizes []int, seps string) string {
	buf := make([]byte, 0, len(d)+len(seps))
	for i, n := range sizes {
		if d == "" {
			break
		}
		if i > 0 {
			buf = append(buf, seps[i-1])
		}
		if len(d) < n {
			n = len(d)
		}
		buf = append(buf, d[:n]...)
		d = d[n:]
	}
	return string(buf)
}
