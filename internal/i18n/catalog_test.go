package i18n

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"golang.org/x/text/language"
)

func testCatalog() *Catalog {
	c := NewCatalog()
	c.AddTemplates("core", language.Und, map[string]string{
		"greeting": "Hello {0}",
		"root":     "root only",
	})
	c.AddTemplates("core", language.German, map[string]string{
		"greeting": "Hallo {0}",
	})
	c.AddTemplates("core", language.MustParse("de-CH"), map[string]string{
		"greeting": "Grüezi {0}",
	})
	return c
}

func TestCatalog_Text(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		name   string
		bundle string
		key    string
		def    string
		locale language.Tag
		want   string
		wantOK bool
	}{
		{"exact locale", "core", "greeting", "", language.MustParse("de-CH"), "Grüezi Ada", true},
		{"parent locale", "core", "greeting", "", language.MustParse("de-AT"), "Hallo Ada", true},
		{"root fallback", "core", "greeting", "", language.French, "Hello Ada", true},
		{"undetermined locale", "core", "greeting", "", language.Und, "Hello Ada", true},
		{"root only key", "core", "root", "", language.German, "root only", true},
		{"missing key", "core", "absent", "", language.German, "", false},
		{"missing key with default", "core", "absent", "Default {0}", language.German, "Default Ada", true},
		{"missing bundle", "other", "greeting", "", language.German, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Text(tt.bundle, tt.key, tt.def, tt.locale, "Ada")
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Text() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCatalog_TextMalformedTemplate(t *testing.T) {
	c := NewCatalog()
	c.AddTemplates("core", language.English, map[string]string{"broken": "value {0"})

	if got, ok := c.Text("core", "broken", "", language.English, "x"); ok {
		t.Errorf("Text() = %q, want not found for malformed template", got)
	}
}

func TestCatalog_LoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"core.yaml": {Data: []byte(`
config-status:
  msg1: "English 1"
`)},
		"core.de.yaml": {Data: []byte(`
config-status:
  msg1: "German 1"
  nested:
    msg2: "German 2 - {0}"
`)},
		"notes.txt": {Data: []byte("ignored")},
	}

	c := NewCatalog()
	if err := c.LoadFS(fsys); err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}

	if got, _ := c.Text("core", "config-status.msg1", "", language.English); got != "English 1" {
		t.Errorf("en msg1 = %q", got)
	}
	if got, _ := c.Text("core", "config-status.msg1", "", language.German); got != "German 1" {
		t.Errorf("de msg1 = %q", got)
	}
	if got, _ := c.Text("core", "config-status.nested.msg2", "", language.German, "args"); got != "German 2 - args" {
		t.Errorf("de nested msg2 = %q", got)
	}

	locales := c.Locales("core")
	if len(locales) != 2 || locales[0] != language.Und || locales[1] != language.German {
		t.Errorf("Locales() = %v, want [und de]", locales)
	}
}

func TestCatalog_LoadFSRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"invalid yaml", fstest.MapFS{"core.yaml": {Data: []byte("a: [b")}}},
		{"non string value", fstest.MapFS{"core.yaml": {Data: []byte("a: 5")}}},
		{"invalid locale", fstest.MapFS{"core.not_a_locale!.yaml": {Data: []byte("a: b")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog()
			err := c.LoadFS(tt.fsys)
			if !errors.Is(err, ErrInvalidBundleFile) {
				t.Errorf("LoadFS() error = %v, want ErrInvalidBundleFile", err)
			}
			if len(c.Locales("core")) != 0 {
				t.Error("failed load should not store templates")
			}
		})
	}
}

func TestCatalog_LoadDirOverlay(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "core.yaml"), []byte(`
config-status:
  metadata:
    namespace: "Overridden {0}"
`), 0600); err != nil {
		t.Fatalf("writing bundle: %v", err)
	}

	c, err := NewDefaultCatalog()
	if err != nil {
		t.Fatalf("NewDefaultCatalog() error = %v", err)
	}
	if err := c.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}

	if got, _ := c.Text("core", "config-status.metadata.namespace", "", language.English, "semantics", "x"); got != "Overridden semantics" {
		t.Errorf("overlay text = %q", got)
	}
	// Keys not in the overlay survive.
	if _, ok := c.Template("core", "config-status.metadata.value.empty", language.English); !ok {
		t.Error("built-in key lost after overlay")
	}

	if err := c.LoadDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("LoadDir() on missing dir should fail")
	}
}

func TestNewDefaultCatalog(t *testing.T) {
	c, err := NewDefaultCatalog()
	if err != nil {
		t.Fatalf("NewDefaultCatalog() error = %v", err)
	}

	en, ok := c.Text("core", "config-status.metadata.namespace", "", language.AmericanEnglish, "semantics", "Point")
	if !ok || en != "Metadata in namespace semantics: Point" {
		t.Errorf("en = (%q, %v)", en, ok)
	}
	de, ok := c.Text("core", "config-status.metadata.namespace", "", language.German, "semantics", "Point")
	if !ok || de != "Metadaten im Namensraum semantics: Point" {
		t.Errorf("de = (%q, %v)", de, ok)
	}
}

func TestParseBundleFilename(t *testing.T) {
	tests := []struct {
		name       string
		wantBundle string
		wantLocale string
		wantErr    bool
	}{
		{"core.yaml", "core", "", false},
		{"core.de.yaml", "core", "de", false},
		{"core.de_CH.yaml", "core", "de-CH", false},
		{".de.yaml", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle, locale, err := parseBundleFilename(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if bundle != tt.wantBundle || locale != tt.wantLocale {
				t.Errorf("got (%q, %q), want (%q, %q)", bundle, locale, tt.wantBundle, tt.wantLocale)
			}
		})
	}
}
