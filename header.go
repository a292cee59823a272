package qtc

import (
	"fmt"
	"time"

	"github.com/deepteams/qtc/internal/bitio"
)

const magic = "Q1"

// writeHeader emits the ASCII magic, a timestamp comment, a compression
// rate comment, and finally the single level byte -- the only "packed"
// byte of the header, per the format's rule that everything up to and
// including the last comment's newline is raw ASCII written through
// BitStream.WriteByte.
func writeHeader(bs *bitio.BitStream, level int, rate float64) error {
	if err := writeASCIILine(bs, magic); err != nil {
		return err
	}
	if err := writeASCIILine(bs, fmt.Sprintf("# %s", time.Now().UTC().Format(time.RFC3339))); err != nil {
		return err
	}
	if err := writeASCIILine(bs, fmt.Sprintf("# compression rate %.2f%%", rate)); err != nil {
		return err
	}
	return bs.WriteByte(byte(level))
}

func writeASCIILine(bs *bitio.BitStream, line string) error {
	for _, c := range []byte(line + "\n") {
		if err := bs.WriteByte(c); err != nil {
			return err
		}
	}
	return nil
}

// readHeader consumes the magic, any number of comment lines, and returns
// the level byte that follows. The stream is left bit-aligned on the next
// byte boundary since the level byte itself consumed exactly 8 bits.
func readHeader(bs *bitio.BitStream) (int, error) {
	for i := 0; i < len(magic); i++ {
		b, err := bs.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("qtc: reading magic: %w", err)
		}
		if b != magic[i] {
			return 0, ErrBadMagic
		}
	}
	nl, err := bs.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("qtc: reading magic newline: %w", err)
	}
	if nl != '\n' {
		return 0, ErrBadMagic
	}

	for {
		b, err := bs.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("qtc: reading header: %w", err)
		}
		if b != '#' {
			return int(b), nil
		}
		for {
			c, err := bs.ReadByte()
			if err != nil {
				return 0, fmt.Errorf("qtc: reading comment line: %w", err)
			}
			if c == '\n' {
				break
			}
		}
	}
}
