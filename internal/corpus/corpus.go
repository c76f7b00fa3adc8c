// Package corpus resolves named word lists for word generation.
package corpus

import (
	"bufio"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"

	"github.com/verte-zerg/buddytype/internal/model"
)

//go:embed data/*.json
var embedded embed.FS

// ErrUnknownLanguage is matched by every lookup failure for a missing corpus.
var ErrUnknownLanguage = errors.New("unknown language")

// UnknownLanguageError reports the corpus name that could not be resolved.
type UnknownLanguageError struct {
	Name string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unknown language: %s", e.Name)
}

// Is lets errors.Is match ErrUnknownLanguage.
func (e *UnknownLanguageError) Is(target error) bool {
	return target == ErrUnknownLanguage
}

// Registry serves built-in corpora and user word lists from a directory.
// User lists are plain text, one word per line, most frequent first, and
// shadow built-in corpora of the same name.
type Registry struct {
	builtin map[string]model.Corpus
	dir     string
}

// NewRegistry parses the built-in corpora. dir may be empty to disable
// user word lists.
func NewRegistry(dir string) (*Registry, error) {
	entries, err := embedded.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in corpora: %w", err)
	}
	builtin := make(map[string]model.Corpus, len(entries))
	for _, entry := range entries {
		raw, err := embedded.ReadFile("data/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		var c model.Corpus
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}
		if c.Name == "" {
			c.Name = strings.TrimSuffix(entry.Name(), ".json")
		}
		builtin[c.Name] = c
	}
	return &Registry{builtin: builtin, dir: dir}, nil
}

// Resolve returns the corpus registered under name.
func (r *Registry) Resolve(name string) (model.Corpus, error) {
	if name == "" {
		return model.Corpus{}, &UnknownLanguageError{Name: name}
	}
	if r.dir != "" {
		path := r.userPath(name)
		if _, err := os.Stat(path); err == nil {
			return readUserList(name, path)
		}
	}
	c, ok := r.builtin[name]
	if !ok {
		return model.Corpus{}, &UnknownLanguageError{Name: name}
	}
	return c, nil
}

// List returns the sorted names of every resolvable corpus.
func (r *Registry) List() []string {
	names := lo.Keys(r.builtin)
	if r.dir != "" {
		if entries, err := os.ReadDir(r.dir); err == nil {
			for _, entry := range entries {
				name := entry.Name()
				if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
					continue
				}
				names = append(names, strings.TrimSuffix(name, ".txt"))
			}
		}
	}
	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}

// Suggest returns up to limit corpus names that fuzzily match name, best
// match first.
func (r *Registry) Suggest(name string, limit int) []string {
	matches := fuzzy.Find(name, r.List())
	names := lo.Map(matches, func(m fuzzy.Match, _ int) string { return m.Str })
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

// readUserList parses a plain-text list: one word per line, most frequent
// first. Blank lines and '#' comments are skipped, and only the first field
// of a line is kept so frequency columns may follow the word.
func readUserList(name, path string) (model.Corpus, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Corpus{}, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	keep := FilterForLang(name)
	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if keep(fields[0]) {
			words = append(words, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return model.Corpus{}, fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	if len(words) == 0 {
		return model.Corpus{}, fmt.Errorf("word list %s has no usable words", path)
	}
	return model.Corpus{Name: name, OrderedByFrequency: true, Words: words}, nil
}

func (r *Registry) userPath(name string) string {
	return filepath.Join(r.dir, filepath.Base(name)+".txt")
}
