package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/imgswap"
)

// Ensure StagedStore implements imgswap.DocumentStore at compile time.
var _ imgswap.DocumentStore = (*StagedStore)(nil)

// OutputMarker is written at the root of every committed output tree.
// Commit only replaces a non-empty directory that carries it.
const OutputMarker = ".imgswap-output"

// StagedStore writes a whole output tree with atomic update semantics.
// Documents are written to a temporary directory, then moved into place
// on Commit. Reads go to the filesystem unchanged.
type StagedStore struct {
	Store
	baseDir string
	name    string
}

// NewStagedStore creates a new StagedStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewStagedStore(baseDir, name string) *StagedStore {
	return &StagedStore{
		baseDir: baseDir,
		name:    name,
	}
}

// StagingDir returns the directory documents are written to before Commit.
func (s *StagedStore) StagingDir() string {
	return s.tempDir()
}

func (s *StagedStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *StagedStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// WriteDocument stages content at path, which is relative to the output
// directory.
func (s *StagedStore) WriteDocument(ctx context.Context, path string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return imgswap.Errorf(imgswap.EINVALID, "output path must be relative: %s", path)
	}
	return writeFileAtomic(filepath.Join(s.tempDir(), clean), []byte(content))
}

// CheckTarget returns EINVALID if the output directory exists, is not
// empty and was not written by an earlier Commit.
func (s *StagedStore) CheckTarget() error {
	entries, err := os.ReadDir(s.finalDir())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	if _, err := os.Stat(filepath.Join(s.finalDir(), OutputMarker)); err == nil {
		return nil
	}
	return imgswap.Errorf(imgswap.EINVALID, "refusing to replace %s: directory is not empty and was not created by imgswap", s.finalDir())
}

// Commit replaces the output directory with the staged one.
func (s *StagedStore) Commit() error {
	if err := s.CheckTarget(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.tempDir(), OutputMarker), nil, 0644); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything staged so far.
func (s *StagedStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// CheckDisjoint returns EINVALID when outDir is inDir or when either
// directory contains the other.
func CheckDisjoint(inDir, outDir string) error {
	in, err := filepath.Abs(inDir)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}
	if within(in, out) || within(out, in) {
		return imgswap.Errorf(imgswap.EINVALID, "output directory %s overlaps input directory %s", outDir, inDir)
	}
	return nil
}

// within reports whether path is parent or lies below it.
func within(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
