package bsp

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zip"
)

// Pakfile opens the zip archive embedded in the PAKFILE lump. A map without
// one has an empty archive.
func (b *BSP) Pakfile() (*zip.Reader, error) {
	buf, err := b.Lump(LumpPakfile)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return &zip.Reader{}, nil
	}
	z, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("read pakfile: %w", err)
	}
	return z, nil
}
