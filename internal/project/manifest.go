package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"lexcanon/internal/lexicon"
	"lexcanon/internal/locale"
)

// DefaultExtensions are scanned when the manifest does not list any.
var DefaultExtensions = []string{".lc"}

// Manifest is a decoded lexcanon.toml together with where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the TOML layout of lexcanon.toml:
//
//	[project]
//	name = "demo"
//	locale = "zh-CN"
//	extensions = [".lc"]
//	lexicons = ["lexicons/fr-FR.toml"]
//
//	[canon]
//	report_unknown = true
//	jobs = 4
//
//	[cache]
//	enabled = true
//	dir = ".lexcanon/cache"
type Config struct {
	Project ProjectConfig `toml:"project"`
	Canon   CanonConfig   `toml:"canon"`
	Cache   CacheConfig   `toml:"cache"`
}

type ProjectConfig struct {
	Name       string   `toml:"name"`
	Locale     string   `toml:"locale"`
	Extensions []string `toml:"extensions"`
	Lexicons   []string `toml:"lexicons"`
}

type CanonConfig struct {
	ReportUnknown bool `toml:"report_unknown"`
	KeepTrivia    bool `toml:"keep_trivia"`
	Jobs          int  `toml:"jobs"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// ManifestError reports a lexcanon.toml that could not be used.
type ManifestError struct {
	Path   string
	Detail string
	Err    error
}

func (e *ManifestError) Error() string {
	switch {
	case e.Err != nil && e.Detail != "":
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Detail, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Path, e.Detail)
	}
}

func (e *ManifestError) Unwrap() error { return e.Err }

// LoadManifest finds and decodes the manifest above startDir. ok is false
// when there is no lexcanon.toml at all, which is not an error.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, &ManifestError{Path: path, Detail: "failed to parse TOML", Err: err}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, &ManifestError{Path: path, Detail: "unknown keys: " + strings.Join(keys, ", ")}
	}
	if !meta.IsDefined("project") {
		return Config{}, &ManifestError{Path: path, Detail: "missing [project]"}
	}
	if cfg.Project.Locale != "" {
		id, err := locale.Parse(cfg.Project.Locale)
		if err != nil {
			return Config{}, &ManifestError{Path: path, Detail: "invalid [project].locale", Err: err}
		}
		cfg.Project.Locale = id.String()
	}
	for i, ext := range cfg.Project.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return Config{}, &ManifestError{Path: path, Detail: "empty entry in [project].extensions"}
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Project.Extensions[i] = ext
	}
	if cfg.Canon.Jobs < 0 {
		return Config{}, &ManifestError{Path: path, Detail: "[canon].jobs must not be negative"}
	}
	return cfg, nil
}

// Extensions returns the source file extensions of the project.
func (m *Manifest) Extensions() []string {
	if m == nil || len(m.Config.Project.Extensions) == 0 {
		return DefaultExtensions
	}
	return m.Config.Project.Extensions
}

// CacheDir resolves [cache].dir against the project root. Empty means the
// user cache directory.
func (m *Manifest) CacheDir() string {
	if m == nil || m.Config.Cache.Dir == "" {
		return ""
	}
	if filepath.IsAbs(m.Config.Cache.Dir) {
		return m.Config.Cache.Dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Cache.Dir))
}

// LexiconData reads the extra locale files listed in [project].lexicons.
func (m *Manifest) LexiconData() ([]lexicon.Data, error) {
	if m == nil {
		return nil, nil
	}
	out := make([]lexicon.Data, 0, len(m.Config.Project.Lexicons))
	for _, rel := range m.Config.Project.Lexicons {
		p := filepath.Join(m.Root, filepath.FromSlash(rel))
		raw, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, &ManifestError{Path: m.Path, Detail: "lexicon file does not exist: " + rel}
			}
			return nil, &ManifestError{Path: m.Path, Detail: "failed to read " + rel, Err: err}
		}
		d, err := lexicon.DecodeData(filepath.Base(p), raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Registry builds the lexicon registry for the project: the embedded locales
// plus any listed in the manifest.
func (m *Manifest) Registry() (*lexicon.Registry, error) {
	extra, err := m.LexiconData()
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return lexicon.Default()
	}
	return lexicon.LoadRegistry(lexicon.EmbeddedFS(), extra...)
}
