// Package fs provides file-based storage for HTML documents.
package fs

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/imgswap"
	"golang.org/x/net/html/charset"
)

// Ensure Store implements imgswap.DocumentStore at compile time.
var _ imgswap.DocumentStore = (*Store)(nil)

// Store reads and writes documents on the local filesystem.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// ReadDocument reads the file at path and decodes it to UTF-8.
func (s *Store) ReadDocument(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", imgswap.Errorf(imgswap.ENOTFOUND, "file not found: %s", path)
	} else if err != nil {
		return "", err
	}
	return DecodeDocument(data)
}

// WriteDocument replaces the file at path with content. The content is
// written to a temporary file in the same directory and renamed into
// place, so readers never see a partial document.
func (s *Store) WriteDocument(ctx context.Context, path string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(content))
}

// DecodeDocument converts raw HTML bytes to UTF-8. The encoding comes
// from a byte order mark, a <meta> charset declaration, or a guess based
// on the content, in that order.
func DecodeDocument(data []byte) (string, error) {
	enc, name, _ := charset.DetermineEncoding(data, "text/html")
	if name == "utf-8" {
		return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", imgswap.Errorf(imgswap.EPARSE, "decode %s: %v", name, err)
	}
	return string(decoded), nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// FindHTMLFiles returns the .html and .htm files below dir in lexical
// order. Hidden directories are skipped.
func FindHTMLFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".html", ".htm":
			files = append(files, path)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil, imgswap.Errorf(imgswap.ENOTFOUND, "directory not found: %s", dir)
	}
	return files, err
}

// OutputPath maps path, a file below inDir, to the same relative location
// below outDir.
func OutputPath(inDir, outDir, path string) (string, error) {
	rel, err := filepath.Rel(inDir, path)
	if err != nil {
		return "", imgswap.Errorf(imgswap.EINVALID, "%s is not below %s", path, inDir)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", imgswap.Errorf(imgswap.EINVALID, "%s is not below %s", path, inDir)
	}
	return filepath.Join(outDir, rel), nil
}
