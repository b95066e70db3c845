// Package notes reads and writes the note files under a notes root.
package notes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// Content maps a slash-separated path relative to the notes root to the
// note's text.
type Content map[string]string

// Paths returns the keys in sorted order.
func (c Content) Paths() []string {
	paths := make([]string, 0, len(c))
	for p := range c {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// DefaultExtensions are scanned when the store is built without any.
var DefaultExtensions = []string{".md", ".txt"}

const tempFilePrefix = ".notewise-tmp-"

// ErrOutsideRoot is returned for a path that resolves outside the notes root.
var ErrOutsideRoot = errors.New("path is outside the notes directory")

// Store gives access to the note files under one root directory.
type Store struct {
	root       string
	extensions []string
	logger     *zap.Logger
}

func NewStore(root string, extensions []string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return &Store{root: filepath.Clean(root), extensions: exts, logger: logger}
}

func (s *Store) Root() string { return s.root }

func (s *Store) Extensions() []string { return append([]string(nil), s.extensions...) }

func (s *Store) pattern() string {
	if len(s.extensions) == 1 {
		return "**/*" + s.extensions[0]
	}
	return "**/*{" + strings.Join(s.extensions, ",") + "}"
}

// List returns the relative paths of every note, sorted. A missing root
// yields no notes.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if _, err := os.Stat(s.root); errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("notes root does not exist", zap.String("root", s.root))
		return nil, nil
	}

	var paths []string
	err := doublestar.GlobWalk(os.DirFS(s.root), s.pattern(), func(p string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		paths = append(paths, p)
		return nil
	}, doublestar.WithFilesOnly(), doublestar.WithNoHidden(), doublestar.WithCaseInsensitive())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Collect reads every note into memory. Files that cannot be read are
// logged and skipped.
func (s *Store) Collect(ctx context.Context) (Content, error) {
	paths, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	content := make(Content, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := readNote(filepath.Join(s.root, filepath.FromSlash(p)))
		if err != nil {
			s.logger.Warn("skipping unreadable note", zap.String("path", p), zap.Error(err))
			continue
		}
		content[p] = text
	}
	s.logger.Debug("notes collected", zap.String("root", s.root), zap.Int("count", len(content)))
	return content, nil
}

// Categories returns the visible top-level directories, sorted.
func (s *Store) Categories() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.root, err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}

// Read returns the text of one note.
func (s *Store) Read(rel string) (string, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	return readNote(abs)
}

// Write stores content at rel and returns the absolute path written. An
// existing file is never replaced: the name gets a -2, -3, ... suffix.
func (s *Store) Write(rel, content string) (string, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	target, err := freeName(abs)
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(target, []byte(content), 0o644); err != nil {
		return "", err
	}
	s.logger.Debug("note written", zap.String("path", target), zap.Int("bytes", len(content)))
	return target, nil
}

// Rel converts an absolute path under the root to its slash-separated form.
func (s *Store) Rel(abs string) string {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}

// resolve maps rel onto the root. Anchoring at "/" before cleaning makes
// ".." segments stop at the root.
func (s *Store) resolve(rel string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(strings.TrimSpace(rel)))
	if clean == "/" {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, rel)
	}
	abs := filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	if r, err := filepath.Rel(s.root, abs); err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, rel)
	}
	return abs, nil
}

func freeName(abs string) (string, error) {
	ext := filepath.Ext(abs)
	base := strings.TrimSuffix(abs, ext)
	candidate := abs
	for i := 2; ; i++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		candidate = base + "-" + strconv.Itoa(i) + ext
	}
}

func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmp, err := os.CreateTemp(dir, tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}
