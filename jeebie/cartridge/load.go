package cartridge

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// ErrEmptyArchive is returned when a compressed ROM archive holds no files.
var ErrEmptyArchive = errors.New("archive contains no files")

// LoadFile reads a ROM image from disk. Files ending in .gz, .zip or .7z are
// decompressed first; for archives the first entry is used.
func LoadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rom: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip rom: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case ".zip":
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("failed to open zip rom: %w", err)
		}
		if len(zr.File) == 0 {
			return nil, ErrEmptyArchive
		}
		return readEntry(zr.File[0].Open)
	case ".7z":
		sr, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("failed to open 7z rom: %w", err)
		}
		if len(sr.File) == 0 {
			return nil, ErrEmptyArchive
		}
		return readEntry(sr.File[0].Open)
	}

	return data, nil
}

func readEntry(open func() (io.ReadCloser, error)) ([]byte, error) {
	rc, err := open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// LoadFromFile reads and decompresses path and returns the matching mapper.
func LoadFromFile(path string) (Cartridge, Header, error) {
	data, err := LoadFile(path)
	if err != nil {
		return nil, Header{}, err
	}
	return New(data)
}
