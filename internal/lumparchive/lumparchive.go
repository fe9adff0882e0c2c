// Package lumparchive exports the lumps of a map as a compressed tar or zip.
package lumparchive

import (
	"archive/tar"
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zip"
	"github.com/pg9182/srcasset/bsp"
)

// DigestsName is the name of the entry listing the digest of every lump.
const DigestsName = "digests.txt"

// Options configures Write.
type Options struct {
	// Raw stores lumps as found in the map instead of decompressing them.
	Raw bool
	// Zip writes a zip archive instead of a tar. Codec must be nil or none.
	Zip bool
	// Codec compresses the tar stream. Nil means none.
	Codec Codec
}

// Digest returns the hex xxhash64 of b.
func Digest(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}

// EntryName returns the archive entry name for lump i.
func EntryName(i int) string {
	return fmt.Sprintf("%02d_%s.lump", i, bsp.LumpName(i))
}

// Write streams an archive containing every non-empty lump of b to w, followed
// by a digest listing.
func Write(w io.Writer, b *bsp.BSP, opt Options) error {
	codec := opt.Codec
	if codec == nil {
		codec = noneCodec{}
	}
	if opt.Zip && codec.Name() != "none" {
		return fmt.Errorf("zip archives cannot be wrapped in %s", codec.Name())
	}

	cw, err := codec.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create %s writer: %w", codec.Name(), err)
	}
	var closed bool
	defer func() {
		if !closed {
			cw.Close() // release encoder resources
		}
	}()

	var (
		add    func(name string, data []byte) error
		finish func() error
	)
	if opt.Zip {
		a := zip.NewWriter(cw)
		add = func(name string, data []byte) error {
			fw, err := a.Create(name)
			if err == nil {
				_, err = fw.Write(data)
			}
			return err
		}
		finish = a.Close
	} else {
		a := tar.NewWriter(cw)
		add = func(name string, data []byte) error {
			err := a.WriteHeader(&tar.Header{
				Name: name,
				Size: int64(len(data)),
				Mode: 0666,
			})
			if err == nil {
				_, err = a.Write(data)
			}
			return err
		}
		finish = a.Close
	}

	var digests strings.Builder
	for i := 0; i < bsp.NumLumps; i++ {
		var data []byte
		if opt.Raw {
			data, err = b.RawLump(i)
		} else {
			data, err = b.Lump(i)
		}
		if err != nil {
			return err
		}
		if len(data) == 0 {
			continue
		}
		name := EntryName(i)
		if err := add(name, data); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		fmt.Fprintf(&digests, "%s  %s\n", Digest(data), name)
	}
	if err := add(DigestsName, []byte(digests.String())); err != nil {
		return fmt.Errorf("write %s: %w", DigestsName, err)
	}
	if err := finish(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	closed = true
	if err := cw.Close(); err != nil {
		return fmt.Errorf("finish %s stream: %w", codec.Name(), err)
	}
	return nil
}

// NewReader opens a tar written by Write with codec.
func NewReader(r io.Reader, codec Codec) (*tar.Reader, io.Closer, error) {
	if codec == nil {
		codec = noneCodec{}
	}
	cr, err := codec.NewReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s reader: %w", codec.Name(), err)
	}
	return tar.NewReader(cr), cr, nil
}
