// Package palette maps AST node categories to display colors.
//
// A [Palette] is configuration data: it names a color for each known
// category tag plus two reserved tints, one for the synthetic root node and
// one for edge lines. Categories without an explicit entry resolve to the
// catch-all [CategoryOther] color.
//
// Palettes load from TOML:
//
//	root = "#8e9aaf"
//	line = "#b6bcc8"
//
//	[categories]
//	require   = "#e07a5f"
//	variable  = "#3d85c6"
//	function  = "#81b29a"
//	interface = "#f2cc8f"
//	other     = "#9c89b8"
package palette

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/asttree/pkg/errors"
)

// Known category tags.
const (
	CategoryRequire   = "require"
	CategoryVariable  = "variable"
	CategoryFunction  = "function"
	CategoryInterface = "interface"
	CategoryOther     = "other"
)

// Palette resolves category tags to colors.
type Palette struct {
	Root       string            `toml:"root" json:"root"`
	Line       string            `toml:"line" json:"line"`
	Categories map[string]string `toml:"categories" json:"categories"`
}

// Default returns the built-in palette.
func Default() Palette {
	return Palette{
		Root: "#8e9aaf",
		Line: "#b6bcc8",
		Categories: map[string]string{
			CategoryRequire:   "#e07a5f",
			CategoryVariable:  "#3d85c6",
			CategoryFunction:  "#81b29a",
			CategoryInterface: "#f2cc8f",
			CategoryOther:     "#9c89b8",
		},
	}
}

// Color returns the color for category, falling back to the "other" entry.
func (p Palette) Color(category string) string {
	if c, ok := p.Categories[category]; ok && c != "" {
		return c
	}
	return p.Categories[CategoryOther]
}

// Merge returns a copy of p with every non-empty value of o applied on top.
func (p Palette) Merge(o Palette) Palette {
	out := Palette{
		Root:       p.Root,
		Line:       p.Line,
		Categories: maps.Clone(p.Categories),
	}
	if out.Categories == nil {
		out.Categories = make(map[string]string, len(o.Categories))
	}
	if o.Root != "" {
		out.Root = o.Root
	}
	if o.Line != "" {
		out.Line = o.Line
	}
	for k, v := range o.Categories {
		if v != "" {
			out.Categories[k] = v
		}
	}
	return out
}

// CategoryNames returns the configured category tags in sorted order.
func (p Palette) CategoryNames() []string {
	return slices.Sorted(maps.Keys(p.Categories))
}

// Validate checks that the reserved tints and the catch-all category are set.
func (p Palette) Validate() error {
	if p.Root == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "palette: root color is required")
	}
	if p.Line == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "palette: line color is required")
	}
	if p.Categories[CategoryOther] == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "palette: %q category color is required", CategoryOther)
	}
	return nil
}

// Read decodes a TOML palette from r and merges it over [Default].
func Read(r io.Reader) (Palette, error) {
	var p Palette
	if _, err := toml.NewDecoder(r).Decode(&p); err != nil {
		return Palette{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode palette")
	}
	merged := Default().Merge(p)
	if err := merged.Validate(); err != nil {
		return Palette{}, err
	}
	return merged, nil
}

// LoadFile reads a TOML palette file.
func LoadFile(path string) (Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Palette{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "palette %s", path)
		}
		return Palette{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
