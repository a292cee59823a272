package qtc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deepteams/qtc/internal/qtree"
	"github.com/deepteams/qtc/internal/raster"
)

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func TestRoundTripLosslessSinglePixel(t *testing.T) {
	path := tempPath(t, "a.qtc")
	pix := []byte{42}

	if _, _, err := Encode(path, pix, 1, 255, EncoderOptions{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	tree, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := raster.Render(tree)
	if len(got.Pix) != 1 || got.Pix[0] != 42 {
		t.Errorf("Pix = %v, want [42]", got.Pix)
	}
}

func TestRoundTripLosslessNonUniform(t *testing.T) {
	path := tempPath(t, "b.qtc")
	pix := []byte{0, 0, 0, 1}

	if _, _, err := Encode(path, pix, 2, 255, EncoderOptions{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	tree, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := raster.Render(tree)
	for i, want := range pix {
		if got.Pix[i] != want {
			t.Errorf("Pix[%d] = %d, want %d", i, got.Pix[i], want)
		}
	}
}

func TestRoundTripLosslessUniform4x4(t *testing.T) {
	path := tempPath(t, "c.qtc")
	pix := make([]byte, 16)
	for i := range pix {
		pix[i] = 200
	}

	tree, _, err := Encode(path, pix, 4, 255, EncoderOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !tree.Nodes[0].U {
		t.Fatal("root not marked uniform for constant image")
	}

	got, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r := raster.Render(got)
	for i, s := range r.Pix {
		if s != 200 {
			t.Errorf("Pix[%d] = %d, want 200", i, s)
		}
	}
}

func TestRoundTripWithArbitraryRaster(t *testing.T) {
	path := tempPath(t, "d.qtc")
	pix := []byte{
		10, 20, 200, 210,
		30, 40, 220, 230,
		5, 6, 7, 9,
		1, 2, 3, 4,
	}

	if _, _, err := Encode(path, pix, 4, 255, EncoderOptions{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	tree, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := raster.Render(tree)
	for i, want := range pix {
		if got.Pix[i] != want {
			t.Errorf("Pix[%d] = %d, want %d", i, got.Pix[i], want)
		}
	}
}

func TestNormalizationScalesDuringEncode(t *testing.T) {
	path := tempPath(t, "e.qtc")
	pix := []byte{0, 100, 200, 100}

	if _, _, err := Encode(path, pix, 2, 200, EncoderOptions{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	tree, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := raster.Render(tree)
	want := []byte{0, 127, 255, 127}
	for i, w := range want {
		if got.Pix[i] != w {
			t.Errorf("Pix[%d] = %d, want %d", i, got.Pix[i], w)
		}
	}
}

func TestEncodeRejectsNonPowerOfTwoSide(t *testing.T) {
	path := tempPath(t, "f.qtc")
	if _, _, err := Encode(path, make([]byte, 9), 3, 255, EncoderOptions{}); err == nil {
		t.Fatal("Encode succeeded, want error for side=3")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("Encode left a file behind on error")
	}
}

func TestEncodeRejectsFilterStrengthOutOfRange(t *testing.T) {
	path := tempPath(t, "g.qtc")
	_, _, err := Encode(path, []byte{1, 2, 3, 4}, 2, 255, EncoderOptions{FilterStrength: 3})
	if err == nil {
		t.Fatal("Encode succeeded, want error for filter strength out of range")
	}
}

func TestCompressionRateMatchesUniformImage(t *testing.T) {
	path := tempPath(t, "h.qtc")
	pix := make([]byte, 16)
	for i := range pix {
		pix[i] = 7
	}
	_, rate, err := Encode(path, pix, 4, 255, EncoderOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// Root alone: 8 (color) + 2 (e) + 1 (u) = 11 bits, rounds up to 16.
	want := 100 * float64(16) / float64(8*16)
	if rate != want {
		t.Errorf("rate = %v, want %v", rate, want)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	path := tempPath(t, "i.qtc")
	if err := os.WriteFile(path, []byte("XX\n255\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Decode(path); err == nil {
		t.Fatal("Decode succeeded, want error for bad magic")
	}
}

func TestDecodeAcceptsHeaderComments(t *testing.T) {
	path := tempPath(t, "j.qtc")
	if _, _, err := Encode(path, []byte{1, 2, 3, 4}, 2, 255, EncoderOptions{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// Encode always writes a timestamp and compression-rate comment; a
	// successful Decode here exercises the comment-skipping path.
	if _, err := Decode(path); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}

func TestFilteredEncodeStillRoundTripsStructurally(t *testing.T) {
	path := tempPath(t, "k.qtc")
	pix := make([]byte, 64)
	for i := range pix {
		pix[i] = byte(100 + i%3)
	}
	tree, _, err := Encode(path, pix, 8, 255, EncoderOptions{FilterStrength: 1.5})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Level != tree.Level || len(got.Nodes) != len(tree.Nodes) {
		t.Fatalf("decoded tree shape mismatch: level=%d nodes=%d, want level=%d nodes=%d",
			got.Level, len(got.Nodes), tree.Level, len(tree.Nodes))
	}
	// A node under a uniform parent carries no bits; the decoder gives it
	// the parent's color, so the expected color propagates down the same way.
	wantColor := make([]uint8, len(tree.Nodes))
	for i := range tree.Nodes {
		wantColor[i] = tree.Nodes[i].Color
		if i > 0 && tree.Nodes[qtree.Parent(i)].U {
			wantColor[i] = wantColor[qtree.Parent(i)]
		}
	}
	for i := range tree.Nodes {
		if got.Nodes[i].Color != wantColor[i] {
			t.Errorf("node %d color = %d, want %d", i, got.Nodes[i].Color, wantColor[i])
		}
		if got.Nodes[i].U != tree.Nodes[i].U {
			t.Errorf("node %d u = %v, want %v", i, got.Nodes[i].U, tree.Nodes[i].U)
		}
	}
}
