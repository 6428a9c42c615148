// Package sink writes extracted assets below an output directory.
//
// By default, files are written to a temporary file in the destination
// directory and renamed to the final path on Commit, so a partially written
// asset is never visible at its final path. All paths are resolved through
// an os.Root, so a resolved name cannot escape the output directory.
package sink

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Committer is a writer that can be committed or discarded.
type Committer interface {
	io.Writer

	// Commit finalizes the write, making content visible at its path.
	Commit() error

	// Discard aborts the write and removes any partial output.
	Discard() error
}

// FileSink writes files below a destination directory.
//
// A FileSink is safe for concurrent use; each Writer call works on its own
// file. Directory creation tolerates directories that already exist.
type FileSink struct {
	destDir      string
	root         *os.Root
	skipExisting bool
	directWrite  bool
}

// Option configures a FileSink.
type Option func(*FileSink)

// WithSkipExisting leaves existing files untouched.
// By default, existing files are overwritten.
func WithSkipExisting(skip bool) Option {
	return func(s *FileSink) {
		s.skipExisting = skip
	}
}

// WithDirectWrites disables temp files and writes directly to the final path.
func WithDirectWrites(enabled bool) Option {
	return func(s *FileSink) {
		s.directWrite = enabled
	}
}

// New creates destDir if needed and returns a FileSink rooted at it.
// Close must be called to release the root handle.
func New(destDir string, opts ...Option) (*FileSink, error) {
	if destDir == "" {
		destDir = "."
	}
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", destDir, err)
	}
	root, err := os.OpenRoot(destDir)
	if err != nil {
		return nil, fmt.Errorf("open output directory %s: %w", destDir, err)
	}
	s := &FileSink{
		destDir: destDir,
		root:    root,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the destination directory.
func (s *FileSink) Dir() string {
	return s.destDir
}

// Close releases the root handle.
func (s *FileSink) Close() error {
	return s.root.Close()
}

// ShouldWrite returns false if the file already exists and existing files
// are skipped. name is slash-separated and relative to the destination.
func (s *FileSink) ShouldWrite(name string) bool {
	if !s.skipExisting {
		return true
	}
	if !fs.ValidPath(name) {
		return true // Writer reports the error
	}
	_, err := s.root.Stat(filepath.FromSlash(name))
	return errors.Is(err, fs.ErrNotExist)
}

// Writer returns a Committer for name, creating parent directories as needed.
func (s *FileSink) Writer(name string) (Committer, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, &fs.PathError{Op: "create", Path: name, Err: fs.ErrInvalid}
	}
	destRel := filepath.FromSlash(name)
	destPath := filepath.Join(s.destDir, destRel)

	if dir := filepath.Dir(destRel); dir != "." {
		if err := s.root.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", filepath.Join(s.destDir, dir), err)
		}
	}

	if s.directWrite {
		f, err := s.root.OpenFile(destRel, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("create file %s: %w", destPath, err)
		}
		return &directCommitter{destPath: destPath, destRel: destRel, file: f, root: s.root}, nil
	}

	tmp, tmpRel, err := createTempFile(s.root, filepath.Dir(destRel), ".wdf-")
	if err != nil {
		return nil, fmt.Errorf("create temp file for %s: %w", destPath, err)
	}
	return &fileCommitter{destPath: destPath, destRel: destRel, tempFile: tmp, tempRel: tmpRel, root: s.root}, nil
}

// WriteFile writes content to name in one step.
func (s *FileSink) WriteFile(name string, content []byte) error {
	w, err := s.Writer(name)
	if err != nil {
		return err
	}
	if _, err := w.Write(content); err != nil {
		_ = w.Discard() //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("write %s: %w", filepath.Join(s.destDir, filepath.FromSlash(name)), err)
	}
	return w.Commit()
}

// fileCommitter writes to a temp file and renames on Commit.
type fileCommitter struct {
	destPath string
	destRel  string
	tempFile *os.File
	tempRel  string
	root     *os.Root
}

// Write implements io.Writer.
func (c *fileCommitter) Write(p []byte) (int, error) {
	return c.tempFile.Write(p)
}

// Commit closes the temp file and renames it to the final path.
func (c *fileCommitter) Commit() error {
	if err := c.tempFile.Close(); err != nil {
		_ = c.root.Remove(c.tempRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := c.root.Rename(c.tempRel, c.destRel); err != nil {
		_ = c.root.Remove(c.tempRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("rename to %s: %w", c.destPath, err)
	}
	return nil
}

// Discard closes and removes the temp file.
func (c *fileCommitter) Discard() error {
	_ = c.tempFile.Close() //nolint:errcheck // we're cleaning up
	return c.root.Remove(c.tempRel)
}

// directCommitter writes directly to the final path.
type directCommitter struct {
	destPath string
	destRel  string
	file     *os.File
	root     *os.Root
}

// Write implements io.Writer.
func (c *directCommitter) Write(p []byte) (int, error) {
	return c.file.Write(p)
}

// Commit closes the file.
func (c *directCommitter) Commit() error {
	if err := c.file.Close(); err != nil {
		_ = c.root.Remove(c.destRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close file %s: %w", c.destPath, err)
	}
	return nil
}

// Discard closes and removes the file.
func (c *directCommitter) Discard() error {
	_ = c.file.Close() //nolint:errcheck // best-effort cleanup
	return c.root.Remove(c.destRel)
}

func createTempFile(root *os.Root, dir, prefix string) (*os.File, string, error) {
	const attempts = 10
	for range attempts {
		name, err := randomSuffix()
		if err != nil {
			return nil, "", err
		}
		relPath := filepath.Join(dir, prefix+name)
		f, err := root.OpenFile(relPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			return f, relPath, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", errors.New("create temp file: exhausted retries")
}

func randomSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
