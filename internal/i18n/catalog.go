package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// rootLocale keys the templates used when no locale in the chain matches.
const rootLocale = ""

//go:embed bundles/*.yaml
var defaultBundles embed.FS

// Logger defines the logging interface used by the Catalog.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Catalog stores message templates by bundle, locale and key.
//
// Thread Safety:
//   - All methods are safe for concurrent use. Loading replaces
//     individual templates; lookups never observe a partial file.
type Catalog struct {
	mu sync.RWMutex
	// bundles maps bundle -> locale string -> key -> template.
	bundles map[string]map[string]map[string]string
	logger  Logger
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		bundles: make(map[string]map[string]map[string]string),
		logger:  noopLogger{},
	}
}

// NewDefaultCatalog returns a catalog preloaded with the built-in bundles.
func NewDefaultCatalog() (*Catalog, error) {
	c := NewCatalog()
	sub, err := fs.Sub(defaultBundles, "bundles")
	if err != nil {
		return nil, fmt.Errorf("opening built-in bundles: %w", err)
	}
	if err := c.LoadFS(sub); err != nil {
		return nil, fmt.Errorf("loading built-in bundles: %w", err)
	}
	return c, nil
}

// SetLogger sets the logger for the catalog.
func (c *Catalog) SetLogger(logger Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// LoadDir overlays every bundle file in dir onto the catalog.
func (c *Catalog) LoadDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening catalog dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("opening catalog dir: %s is not a directory", dir)
	}
	return c.LoadFS(os.DirFS(dir))
}

// LoadFS overlays every *.yaml bundle file at the root of fsys. Files are
// parsed before any template is stored, so a bad file leaves the catalog
// unchanged.
func (c *Catalog) LoadFS(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading bundles: %w", err)
	}

	type parsed struct {
		bundle, locale string
		templates      map[string]string
	}
	var files []parsed

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		bundle, locale, err := parseBundleFilename(entry.Name())
		if err != nil {
			return err
		}
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		templates, err := decodeBundle(data)
		if err != nil {
			return fmt.Errorf("%s: %w", entry.Name(), err)
		}
		files = append(files, parsed{bundle: bundle, locale: locale, templates: templates})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range files {
		c.addLocked(f.bundle, f.locale, f.templates)
		c.logger.Debug("bundle loaded", "bundle", f.bundle, "locale", f.locale, "keys", len(f.templates))
	}
	return nil
}

// AddTemplates stores templates for bundle in locale. language.Und
// stores root templates.
func (c *Catalog) AddTemplates(bundle string, locale language.Tag, templates map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addLocked(bundle, localeKey(locale), templates)
}

func (c *Catalog) addLocked(bundle, locale string, templates map[string]string) {
	locales, ok := c.bundles[bundle]
	if !ok {
		locales = make(map[string]map[string]string)
		c.bundles[bundle] = locales
	}
	keys, ok := locales[locale]
	if !ok {
		keys = make(map[string]string, len(templates))
		locales[locale] = keys
	}
	for k, v := range templates {
		keys[k] = v
	}
}

// Template returns the raw template for key, walking locale's parent
// chain down to the root templates.
func (c *Catalog) Template(bundle, key string, locale language.Tag) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	locales, ok := c.bundles[bundle]
	if !ok {
		return "", false
	}
	for tag := locale; ; tag = tag.Parent() {
		if tpl, ok := locales[localeKey(tag)][key]; ok {
			return tpl, true
		}
		if tag == language.Und {
			return "", false
		}
	}
}

// Text renders key from bundle in locale with args. When the key is not
// found, defaultText is rendered instead; with an empty defaultText the
// result is ("", false). Templates that fail to render are logged and
// treated as missing.
func (c *Catalog) Text(bundle, key, defaultText string, locale language.Tag, args ...any) (string, bool) {
	tpl, ok := c.Template(bundle, key, locale)
	if !ok {
		if defaultText == "" {
			return "", false
		}
		tpl = defaultText
	}

	text, err := Format(locale, tpl, args...)
	if err != nil {
		c.mu.RLock()
		logger := c.logger
		c.mu.RUnlock()
		logger.Warn("message template not rendered",
			"bundle", bundle,
			"key", key,
			"locale", locale.String(),
			"error", err,
		)
		return "", false
	}
	return text, true
}

// Locales lists the locales with templates in bundle, sorted. The root
// locale is reported as language.Und.
func (c *Catalog) Locales(bundle string) []language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.bundles[bundle]))
	for name := range c.bundles[bundle] {
		names = append(names, name)
	}
	sort.Strings(names)

	tags := make([]language.Tag, 0, len(names))
	for _, name := range names {
		if name == rootLocale {
			tags = append(tags, language.Und)
			continue
		}
		tags = append(tags, language.Make(name))
	}
	return tags
}

func localeKey(tag language.Tag) string {
	if tag == language.Und {
		return rootLocale
	}
	return tag.String()
}

// parseBundleFilename splits "core.de-CH.yaml" into ("core", "de-CH").
func parseBundleFilename(name string) (bundle, locale string, err error) {
	base := strings.TrimSuffix(name, ".yaml")
	bundle, rest, found := strings.Cut(base, ".")
	if bundle == "" {
		return "", "", fmt.Errorf("%w: %s has no bundle name", ErrInvalidBundleFile, name)
	}
	if !found {
		return bundle, rootLocale, nil
	}
	tag, err := ParseLocale(rest)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrInvalidBundleFile, name, err)
	}
	return bundle, localeKey(tag), nil
}

// decodeBundle decodes a YAML document of (possibly nested) string
// templates into a flat key map.
func decodeBundle(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBundleFile, err)
	}

	out := make(map[string]string)
	if err := flatten("", raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: key %q holds %T, want string", ErrInvalidBundleFile, key, v)
		}
	}
	return nil
}
