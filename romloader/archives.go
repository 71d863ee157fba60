package romloader

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

// member is one entry of a random-access archive.
type member interface {
	FileInfo() fs.FileInfo
	Open() (io.ReadCloser, error)
}

// firstAccepted reads the first regular member whose name opts accepts.
func firstAccepted[M member](members []M, name func(M) string, opts Options) (*Image, error) {
	for _, m := range members {
		if m.FileInfo().IsDir() || !opts.accepts(name(m)) {
			continue
		}
		rc, err := m.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in archive: %w", name(m), err)
		}
		data, err := limitedRead(rc, opts.limit())
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name(m), err)
		}
		return &Image{Data: data, Name: filepath.Base(name(m))}, nil
	}
	return nil, ErrNoMatch
}

func extractZIP(path string, opts Options) (*Image, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()
	return firstAccepted(r.File, func(f *zip.File) string { return f.Name }, opts)
}

func extract7z(path string, opts Options) (*Image, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()
	return firstAccepted(r.File, func(f *sevenzip.File) string { return f.Name }, opts)
}

func extractRAR(path string, opts Options) (*Image, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil, ErrNoMatch
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rar entry: %w", err)
		}
		if header.IsDir || !opts.accepts(header.Name) {
			continue
		}
		data, err := limitedRead(r, opts.limit())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return &Image{Data: data, Name: filepath.Base(header.Name)}, nil
	}
}

// extractGzip handles both tarballs and single gzipped files. A single
// file is named after the archive with the .gz suffix removed.
func extractGzip(path string, opts Options) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return extractTar(gr, opts)
	}

	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-3]
	}
	if !opts.accepts(name) {
		return nil, ErrNoMatch
	}
	data, err := limitedRead(gr, opts.limit())
	if err != nil {
		return nil, fmt.Errorf("failed to decompress gzip: %w", err)
	}
	return &Image{Data: data, Name: name}, nil
}

func extractTar(r io.Reader, opts Options) (*Image, error) {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil, ErrNoMatch
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !opts.accepts(header.Name) {
			continue
		}
		data, err := limitedRead(tr, opts.limit())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from tar: %w", header.Name, err)
		}
		return &Image{Data: data, Name: filepath.Base(header.Name)}, nil
	}
}
