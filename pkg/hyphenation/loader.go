package hyphenation

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed patterns
var bundled embed.FS

const manifestFile = "patterns/languages.yaml"

// LanguageInfo describes a pattern set the loader can serve.
type LanguageInfo struct {
	Code       Language `yaml:"code" json:"code"`
	Name       string   `yaml:"name" json:"name"`
	Patterns   string   `yaml:"patterns" json:"patterns"`
	Exceptions string   `yaml:"exceptions,omitempty" json:"exceptions,omitempty"`
	LeftMin    int      `yaml:"left_min" json:"left_min"`
	RightMin   int      `yaml:"right_min" json:"right_min"`
	Source     string   `yaml:"-" json:"source"` // "bundled" or "directory"
}

type manifest struct {
	Languages []LanguageInfo `yaml:"languages"`
}

var bundledLanguages map[Language]LanguageInfo

func init() {
	var err error
	bundledLanguages, err = readManifest(bundled)
	if err != nil {
		panic(fmt.Errorf("hyphenation: invalid embedded manifest: %s", err))
	}
}

func readManifest(fsys fs.FS) (map[Language]LanguageInfo, error) {
	data, err := fs.ReadFile(fsys, manifestFile)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	languages := make(map[Language]LanguageInfo, len(m.Languages))
	for _, info := range m.Languages {
		if info.Code == "" || info.Patterns == "" {
			return nil, fmt.Errorf("entry %q: code and patterns are required", info.Name)
		}
		info.Source = "bundled"
		languages[info.Code] = info
	}
	return languages, nil
}

// Loader reads pattern sets. Files in Dir take precedence over the bundled
// ones; Dir may be empty.
type Loader struct {
	Dir string
}

// NewLoader creates a loader searching dir before the bundled patterns.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

var defaultLoader = &Loader{}

// Load loads the bundled corpus for lang.
func Load(lang Language) (*Standard, error) {
	return defaultLoader.Load(lang)
}

// Load loads the corpus for lang, returning a *LoadError on failure.
func (l *Loader) Load(lang Language) (*Standard, error) {
	if info, ok := l.fromDir(lang); ok {
		return load(lang, info, os.DirFS(l.Dir), "")
	}
	info, ok := bundledLanguages[lang]
	if !ok {
		return nil, &LoadError{Language: lang, Op: "lookup", Err: ErrUnsupportedLanguage}
	}
	return load(lang, info, bundled, "patterns")
}

func (l *Loader) fromDir(lang Language) (LanguageInfo, bool) {
	if l.Dir == "" {
		return LanguageInfo{}, false
	}
	patterns := "hyph-" + string(lang) + ".pat.txt"
	if _, err := os.Stat(filepath.Join(l.Dir, patterns)); err != nil {
		return LanguageInfo{}, false
	}

	info := LanguageInfo{Code: lang, Name: string(lang), Patterns: patterns, Source: "directory"}
	if b, ok := bundledLanguages[lang]; ok {
		info.Name = b.Name
		info.LeftMin, info.RightMin = b.LeftMin, b.RightMin
	} else {
		info.LeftMin, info.RightMin = minimumsFor(lang)
	}
	exceptions := "hyph-" + string(lang) + ".hyp.txt"
	if _, err := os.Stat(filepath.Join(l.Dir, exceptions)); err == nil {
		info.Exceptions = exceptions
	}
	return info, true
}

func load(lang Language, info LanguageInfo, fsys fs.FS, base string) (*Standard, error) {
	patternsPath := path.Join(base, info.Patterns)
	set, err := readWith(fsys, patternsPath, parsePatterns)
	if err != nil {
		return nil, loadError(lang, patternsPath, err)
	}

	exceptions := map[string][]int{}
	if info.Exceptions != "" {
		exceptionsPath := path.Join(base, info.Exceptions)
		exceptions, err = readWith(fsys, exceptionsPath, parseExceptions)
		if err != nil {
			return nil, loadError(lang, exceptionsPath, err)
		}
	}

	left, right := info.LeftMin, info.RightMin
	if left <= 0 || right <= 0 {
		left, right = minimumsFor(lang)
	}

	return &Standard{
		lang:       lang,
		patterns:   set,
		exceptions: exceptions,
		leftMin:    left,
		rightMin:   right,
	}, nil
}

func readWith[T any](fsys fs.FS, name string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := fsys.Open(name)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return parse(f)
}

func loadError(lang Language, name string, err error) error {
	op := "parse"
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		op = "read"
	}
	return &LoadError{Language: lang, Op: op, Path: name, Err: err}
}

// Languages lists the pattern sets available to the loader, sorted by code.
func (l *Loader) Languages() ([]LanguageInfo, error) {
	seen := make(map[Language]LanguageInfo, len(bundledLanguages))
	for code, info := range bundledLanguages {
		seen[code] = info
	}

	if l.Dir != "" {
		entries, err := os.ReadDir(l.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read patterns directory: %w", err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasPrefix(name, "hyph-") || !strings.HasSuffix(name, ".pat.txt") {
				continue
			}
			lang, err := ParseLanguage(strings.TrimSuffix(strings.TrimPrefix(name, "hyph-"), ".pat.txt"))
			if err != nil {
				continue
			}
			if info, ok := l.fromDir(lang); ok {
				seen[lang] = info
			}
		}
	}

	list := make([]LanguageInfo, 0, len(seen))
	for _, info := range seen {
		list = append(list, info)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}
