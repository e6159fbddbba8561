// Package corpus loads the reference document set used by the uniqueness
// scorer. The corpus is read once at startup and treated as immutable for
// the life of the process.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rankforge/seosuite/internal/domain"
)

// Load reads every .txt file in dir, sorted by filename for deterministic
// ordering, and returns their contents as corpus documents. Empty and
// whitespace-only files are skipped. A missing or unreadable directory
// yields ErrCorpusUnavailable; whether to proceed with an empty corpus is
// the caller's policy.
func Load(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir %s: %w: %w", dir, err, domain.ErrCorpusUnavailable)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]string, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Clean(filepath.Join(dir, name)))
		if err != nil {
			return nil, fmt.Errorf("read corpus file %s: %w: %w", name, err, domain.ErrCorpusUnavailable)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}
		docs = append(docs, text)
	}

	return docs, nil
}
