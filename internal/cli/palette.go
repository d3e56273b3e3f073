package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/asttree/pkg/palette"
)

// paletteCommand prints the effective color palette.
func (c *CLI) paletteCommand() *cobra.Command {
	var (
		file   string
		asTOML bool
	)

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Show the effective category color palette",
		Long: `Show the effective category color palette.

The palette is the built-in default merged with the [palette] section of the
config files and the optional palette_file. Use --toml to print it in a form
that can be saved and passed back with --palette.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.effectivePalette(file)
			if err != nil {
				return err
			}
			if asTOML {
				return toml.NewEncoder(c.out).Encode(p)
			}
			c.printPalette(p)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "palette", "", "TOML palette file to show instead of the configured one")
	cmd.Flags().BoolVar(&asTOML, "toml", false, "print the palette as TOML")

	return cmd
}

func (c *CLI) effectivePalette(file string) (palette.Palette, error) {
	if file != "" {
		return palette.LoadFile(file)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return palette.Palette{}, err
	}
	return cfg.Palette, nil
}

func (c *CLI) printPalette(p palette.Palette) {
	ui := c.ui()
	ui.line(StyleTitle.Render("Palette"))
	ui.swatch("root", p.Root)
	ui.swatch("line", p.Line)
	ui.newline()
	ui.line(StyleTitle.Render(fmt.Sprintf("Categories (%d)", len(p.Categories))))
	for _, name := range p.CategoryNames() {
		ui.swatch(name, p.Categories[name])
	}
}
