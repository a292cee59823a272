// Command qtcimg encodes binary PGM rasters to the QTC quadtree format and
// decodes them back.
//
// Usage:
//
//	qtcimg -c -i input.pgm [-o output.qtc] [-a alpha] [-g] [-v]
//	qtcimg -u -i input.qtc [-o output.pgm] [-g] [-v]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/deepteams/qtc"
	"github.com/deepteams/qtc/internal/pgm"
	"github.com/deepteams/qtc/internal/qtree"
	"github.com/deepteams/qtc/internal/raster"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "qtcimg: %v\n", err)
		os.Exit(1)
	}
}

type args struct {
	encode  bool
	decode  bool
	input   string
	output  string
	alpha   float64
	grid    bool
	verbose bool
	help    bool
}

func run(argv []string) error {
	fs := flag.NewFlagSet("qtcimg", flag.ContinueOnError)
	fs.Usage = func() { printHelp(fs) }

	a := &args{}
	fs.BoolVar(&a.encode, "c", false, "encode: input is .pgm, output is .qtc")
	fs.BoolVar(&a.decode, "u", false, "decode: input is .qtc, output is .pgm")
	fs.StringVar(&a.input, "i", "", "input path")
	fs.StringVar(&a.output, "o", "", "output path")
	fs.Float64Var(&a.alpha, "a", 0, "filter strength in [0.0, 2.0] (encode only)")
	fs.BoolVar(&a.grid, "g", false, "also write a segmentation grid")
	fs.BoolVar(&a.verbose, "v", false, "verbose status messages")
	fs.BoolVar(&a.help, "h", false, "display help and exit")

	if err := fs.Parse(argv); err != nil {
		return err
	}
	if a.help {
		printHelp(fs)
		return nil
	}

	if err := validate(a); err != nil {
		return err
	}

	if a.encode {
		return runEncode(a)
	}
	return runDecode(a)
}

func printHelp(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage:
  qtcimg -c -i input.pgm [-o output.qtc] [-a alpha] [-g] [-v]
  qtcimg -u -i input.qtc [-o output.pgm] [-g] [-v]

Encode compresses a binary PGM raster into the QTC quadtree format.
Decode reconstructs a PGM raster from a QTC file.

`)
	fs.PrintDefaults()
}

func validate(a *args) error {
	if a.encode && a.decode {
		return fmt.Errorf("error: -c and -u are mutually exclusive")
	}
	if !a.encode && !a.decode {
		return fmt.Errorf("error: one of -c or -u is required")
	}
	if a.input == "" {
		return fmt.Errorf("error: no input file")
	}
	if a.alpha < 0 || a.alpha > 2 {
		return fmt.Errorf("error: alpha value must be between 0.0 and 2.0")
	}

	wantInputExt, wantOutputExt := ".pgm", ".qtc"
	if a.decode {
		wantInputExt, wantOutputExt = ".qtc", ".pgm"
	}
	if !hasExt(a.input, wantInputExt) {
		return fmt.Errorf("error: input file is only allowed with %q extension", wantInputExt)
	}
	if a.output == "" {
		if a.decode {
			a.output = "PGM/out.pgm"
		} else {
			a.output = "QTC/out.qtc"
		}
	}
	if !hasExt(a.output, wantOutputExt) {
		return fmt.Errorf("error: output file is only allowed with %q extension", wantOutputExt)
	}
	return nil
}

func hasExt(name, ext string) bool {
	return len(name) >= len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext)
}

// gridPath turns "X.pgm" into "X_g.pgm", the segmentation-grid naming
// convention: the "_g" is inserted immediately before the extension.
func gridPath(name string) string {
	return strings.TrimSuffix(name, ".pgm") + "_g.pgm"
}

func runEncode(a *args) error {
	f, err := os.Open(a.input)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	img, err := pgm.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("encode: reading %s: %w", a.input, err)
	}

	if err := os.MkdirAll(dirOf(a.output), 0o755); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	tree, rate, err := qtc.Encode(a.output, img.Pix, img.Width, img.Max, qtc.EncoderOptions{FilterStrength: a.alpha})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if a.verbose {
		fmt.Fprintf(os.Stderr, "Encoded %s -> %s (%.2f%% of raw size)\n", a.input, a.output, rate)
	}

	if a.grid {
		if err := writeGrid(gridPath(a.input), tree); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if a.verbose {
			fmt.Fprintf(os.Stderr, "Wrote segmentation grid %s\n", gridPath(a.input))
		}
	}
	return nil
}

func runDecode(a *args) error {
	tree, err := qtc.Decode(a.input)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if err := os.MkdirAll(dirOf(a.output), 0o755); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	r := raster.Render(tree)
	if err := writePGM(a.output, r); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if a.verbose {
		fmt.Fprintf(os.Stderr, "Decoded %s -> %s\n", a.input, a.output)
	}

	if a.grid {
		if err := writeGrid(gridPath(a.output), tree); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		if a.verbose {
			fmt.Fprintf(os.Stderr, "Wrote segmentation grid %s\n", gridPath(a.output))
		}
	}
	return nil
}

func writeGrid(path string, tree *qtree.Tree) error {
	return writePGM(path, raster.RenderGrid(tree))
}

func writePGM(path string, r *raster.Raster) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	img := &pgm.Image{Width: r.Side, Height: r.Side, Max: r.Max, Pix: r.Pix}
	if err := pgm.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func dirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "."
	}
	return path[:i]
}
