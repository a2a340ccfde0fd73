package task

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Store reads and patches task records under a single directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates a store over the given tasks directory.
func NewStore(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the tasks directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// List parses every *.md file in the tasks directory. Files that cannot
// be read are skipped with a warning. A missing directory yields an
// empty list.
func (s *Store) List() ([]Record, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("failed to list task files: %w", err)
	}
	sort.Strings(paths)

	records := make([]Record, 0, len(paths))
	for _, path := range paths {
		text, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("failed to read task file",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		records = append(records, Parse(path, string(text)))
	}
	return records, nil
}

// Read returns a single record parsed from disk.
func (s *Store) Read(path string) (Record, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read task file: %w", err)
	}
	return Parse(path, string(text)), nil
}

// AppendProgress inserts one line immediately after the progress log
// header, so the log stays newest-first. Every other byte of the file
// is preserved. A record without a progress section gets one appended
// at the end of the file.
func (s *Store) AppendProgress(path, line string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read task file: %w", err)
	}
	text := string(raw)

	idx := headerIndex(text)
	var patched string
	if idx < 0 {
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		patched = text + "\n" + ProgressHeader + "\n" + line + "\n"
	} else {
		headEnd := idx + len(ProgressHeader)
		rest := text[headEnd:]
		// Skip the newline terminating the header line itself.
		if strings.HasPrefix(rest, "\n") {
			rest = rest[1:]
			headEnd++
		}
		patched = text[:headEnd] + line + "\n" + rest
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat task file: %w", err)
	}
	if err := os.WriteFile(path, []byte(patched), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write task file: %w", err)
	}
	return nil
}
