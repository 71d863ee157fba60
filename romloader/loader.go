// Package romloader reads game images for cores that want the content in
// memory. Archives are unpacked and the first member the core accepts is
// returned.
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxSize bounds in-memory images. Cores with larger content set
// need_fullpath and read the file themselves.
const DefaultMaxSize = 512 << 20

var (
	// ErrNoMatch is returned when an archive holds no member the core accepts.
	ErrNoMatch = errors.New("no loadable file found in archive")
	// ErrUnsupportedFormat is returned for files that are neither an
	// accepted extension nor a known archive.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrFileTooLarge is returned when content exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")
)

// Image is a loaded game image.
type Image struct {
	Data []byte
	// Name is the base name of the file the data came from: the archive
	// member for archives, the file itself otherwise.
	Name string
	// Archive is the path of the containing archive, or empty.
	Archive string
}

// Options control how Load resolves a path.
type Options struct {
	// Extensions the core accepts, lower-case with a leading dot. Empty
	// means the core accepts anything.
	Extensions []string
	// MaxSize limits the image size; 0 means DefaultMaxSize.
	MaxSize int64
}

func (o Options) limit() int64 {
	if o.MaxSize > 0 {
		return o.MaxSize
	}
	return DefaultMaxSize
}

// accepts reports whether name carries one of the core's extensions.
func (o Options) accepts(name string) bool {
	if len(o.Extensions) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, ext := range o.Extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// extractor pulls the first accepted member out of an archive.
type extractor func(path string, opts Options) (*Image, error)

type archiveFormat struct {
	name    string
	magic   [][]byte
	exts    []string
	extract extractor
}

var archiveFormats = []archiveFormat{
	{
		name:    "zip",
		magic:   [][]byte{{0x50, 0x4B, 0x03, 0x04}, {0x50, 0x4B, 0x05, 0x06}},
		exts:    []string{".zip"},
		extract: extractZIP,
	},
	{
		name:    "7z",
		magic:   [][]byte{{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}},
		exts:    []string{".7z"},
		extract: extract7z,
	},
	{
		name:    "rar",
		magic:   [][]byte{[]byte("Rar!")},
		exts:    []string{".rar"},
		extract: extractRAR,
	},
	{
		name:    "gzip",
		magic:   [][]byte{{0x1F, 0x8B}},
		exts:    []string{".gz", ".tgz"},
		extract: extractGzip,
	},
}

// detectArchive matches the header magic first, then the extension.
func detectArchive(header []byte, path string) *archiveFormat {
	for i := range archiveFormats {
		for _, m := range archiveFormats[i].magic {
			if bytes.HasPrefix(header, m) {
				return &archiveFormats[i]
			}
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	for i := range archiveFormats {
		for _, e := range archiveFormats[i].exts {
			if ext == e {
				return &archiveFormats[i]
			}
		}
	}
	return nil
}

// Load reads the game image at path. A file whose extension the core
// accepts is returned as-is, even if it is an archive, so cores that take
// zipped content get the zip. Otherwise known archives are unpacked.
func Load(path string, opts Options) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if len(opts.Extensions) > 0 && opts.accepts(path) {
		return readPlain(f, path, opts)
	}

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	if format := detectArchive(header, path); format != nil {
		img, err := format.extract(path, opts)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", format.name, filepath.Base(path), err)
		}
		img.Archive = path
		return img, nil
	}

	if len(opts.Extensions) == 0 {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to seek file: %w", err)
		}
		return readPlain(f, path, opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func readPlain(r io.Reader, path string, opts Options) (*Image, error) {
	data, err := limitedRead(r, opts.limit())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return &Image{Data: data, Name: filepath.Base(path)}, nil
}

// limitedRead reads r fully, failing with ErrFileTooLarge past limit bytes.
func limitedRead(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
