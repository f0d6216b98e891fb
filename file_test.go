package polyfmt

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveExtension(t *testing.T) {
	requireFormats(t, JSON, YAML)
	cases := []struct {
		name string
		want []Format
	}{
		{"cfg.json", []Format{JSON}},
		{"cfg.yaml", []Format{YAML}},
		{"cfg.yml", []Format{YAML}},
		{"CFG.YML", []Format{YAML}},
		{"dir.json/cfg.Yaml", []Format{YAML}},
		{"cfg.ini", nil},
		{"cfg", nil},
		{"cfg.", nil},
		{".hidden/cfg", nil},
	}
	for _, tc := range cases {
		if got := ResolveExtension(tc.name); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestGuessFormat(t *testing.T) {
	cases := []struct {
		path string
		want Format
		ok   bool
	}{
		{"settings.toml", TOML, true},
		{"settings.YML", YAML, true},
		{"a/b/c.ron", RON, true},
		{"x.cbor", CBOR, true},
		{"x.xml", XML, true},
		{"x.txt", 0, false},
		{"x", 0, false},
	}
	for _, tc := range cases {
		got, ok := GuessFormat(tc.path)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("%s: got (%s, %v) want (%s, %v)", tc.path, got, ok, tc.want, tc.ok)
		}
	}
	if f, ok := GuessFormatFromExtension(".JSON"); !ok || f != JSON {
		t.Fatalf("got (%s, %v)", f, ok)
	}
}

func TestExpandStem(t *testing.T) {
	got := ExpandStem("dir/settings")
	var want []StemCandidate
	for _, f := range SupportedFormats() {
		for _, ext := range f.Extensions() {
			want = append(want, StemCandidate{Path: "dir/settings." + ext, Format: f})
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if YAML.IsSupported() {
		var yamlPaths []string
		for _, c := range got {
			if c.Format == YAML {
				yamlPaths = append(yamlPaths, c.Path)
			}
		}
		if !reflect.DeepEqual(yamlPaths, []string{"dir/settings.yaml", "dir/settings.yml"}) {
			t.Fatalf("yaml candidates out of order: %v", yamlPaths)
		}
	}
}

func TestFromFile(t *testing.T) {
	requireFormats(t, TOML, JSON, YAML)
	dir := t.TempDir()
	files := map[string]string{
		"a.json":   `{"name": "Bilbo Baggins", "age": 111, "has_ring": true}`,
		"b.YML":    "name: Bilbo Baggins\nage: 111\nhas_ring: true\n",
		"c.toml":   "name = \"Bilbo Baggins\"\nage = 111\nhas_ring = true\n",
		"noext":    "name = \"Bilbo Baggins\"\nage = 111\nhas_ring = true\n",
		"d.config": `{"name": "Bilbo Baggins", "age": 111, "has_ring": true}`,
	}
	for name, content := range files {
		writeTestFile(t, filepath.Join(dir, name), content)
	}
	for name := range files {
		t.Run(name, func(t *testing.T) {
			got, err := FromFile[Hobbit](filepath.Join(dir, name))
			if err != nil {
				t.Fatal(err)
			}
			if got != oldBilbo() {
				t.Fatalf("got %#v", got)
			}
		})
	}
}

func TestFromFile_KnownExtensionDoesNotProbe(t *testing.T) {
	requireFormats(t, JSON)
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	// Valid YAML, invalid JSON.
	writeTestFile(t, path, "name: Bilbo\n")
	_, err := FromFile[Hobbit](path)
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Format != JSON {
		t.Fatalf("expected json FormatError, got %v", err)
	}
	var pe *ProbeError
	if errors.As(err, &pe) {
		t.Fatal("a known extension must not fall back to probing")
	}
}

func TestFromFile_MissingIsIO(t *testing.T) {
	_, err := FromFile[Hobbit](filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, ErrIO) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrIO wrapping fs.ErrNotExist, got %v", err)
	}
}

func TestFromFile_OpenInjection(t *testing.T) {
	orig := openFile
	openFile = func(string) (fs.File, error) { return nil, fs.ErrPermission }
	defer func() { openFile = orig }()
	_, err := FromFile[Hobbit]("whatever.json")
	if !errors.Is(err, ErrIO) || !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected ErrIO wrapping fs.ErrPermission, got %v", err)
	}
}

func TestFromFile_Limit(t *testing.T) {
	requireFormats(t, JSON)
	path := filepath.Join(t.TempDir(), "big.json")
	writeTestFile(t, path, `{"name": "`+strings.Repeat("x", 100)+`"}`)
	_, err := FromFile[Hobbit](path, WithReadLimits(Limits{MaxInputSize: 16}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestFromFileStem(t *testing.T) {
	requireFormats(t, YAML)
	dir := t.TempDir()
	stem := filepath.Join(dir, "cfg")
	writeTestFile(t, stem+".yml", "name: Bilbo Baggins\nage: 111\nhas_ring: true\n")

	got, err := FromFileStem[Hobbit](stem)
	if err != nil {
		t.Fatal(err)
	}
	if got != oldBilbo() {
		t.Fatalf("got %#v", got)
	}

	c, err := LocateFileStem(stem)
	if err != nil {
		t.Fatal(err)
	}
	if c.Path != stem+".yml" || c.Format != YAML {
		t.Fatalf("got %+v", c)
	}
}

func TestFromFileStem_DecodeErrorNotMasked(t *testing.T) {
	requireFormats(t, YAML)
	stem := filepath.Join(t.TempDir(), "cfg")
	writeTestFile(t, stem+".yml", "name: [unclosed\n")

	_, err := FromFileStem[Hobbit](stem)
	if errors.Is(err, ErrNoMatchingFile) {
		t.Fatal("decode failure reported as a missing file")
	}
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Format != YAML {
		t.Fatalf("expected yaml FormatError, got %v", err)
	}
}

func TestLoadFileStem_ReportsCandidate(t *testing.T) {
	requireFormats(t, JSON, YAML)
	stem := filepath.Join(t.TempDir(), "cfg")
	writeTestFile(t, stem+".yaml", "name: Bilbo Baggins\n")

	got, c, err := LoadFileStem[Hobbit](stem)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Bilbo Baggins" || c.Path != stem+".yaml" || c.Format != YAML {
		t.Fatalf("got %#v from %+v", got, c)
	}

	writeTestFile(t, stem+".json", "{broken")
	_, c, err = LoadFileStem[Hobbit](stem)
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Format != JSON {
		t.Fatalf("expected json FormatError, got %v", err)
	}
	if c.Path != stem+".json" || c.Format != JSON {
		t.Fatalf("decode failure reported for %+v", c)
	}

	_, c, err = LoadFileStem[Hobbit](filepath.Join(t.TempDir(), "none"))
	if !errors.Is(err, ErrNoMatchingFile) || c.Path != "" {
		t.Fatalf("got %+v, %v", c, err)
	}
}

func TestFromFileStem_FirstExistingWins(t *testing.T) {
	requireFormats(t, JSON, YAML)
	stem := filepath.Join(t.TempDir(), "cfg")
	// The json file comes first and is broken; the valid yaml file must not be used.
	writeTestFile(t, stem+".json", "{broken")
	writeTestFile(t, stem+".yaml", "name: Bilbo Baggins\n")

	_, err := FromFileStem[Hobbit](stem)
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Format != JSON {
		t.Fatalf("expected json FormatError, got %v", err)
	}
}

func TestFromFileStem_SkipsDirectories(t *testing.T) {
	requireFormats(t, TOML, JSON)
	stem := filepath.Join(t.TempDir(), "cfg")
	if err := os.Mkdir(stem+".toml", 0o755); err != nil {
		t.Fatal(err)
	}
	writeTestFile(t, stem+".json", `{"name": "Sam"}`)

	got, err := FromFileStem[Hobbit](stem)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Sam" {
		t.Fatalf("got %#v", got)
	}
}

func TestFromFileStem_NoMatch(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "cfg")
	_, err := FromFileStem[Hobbit](stem)
	if !errors.Is(err, ErrNoMatchingFile) {
		t.Fatalf("expected ErrNoMatchingFile, got %v", err)
	}
	if !strings.Contains(err.Error(), stem+".{") {
		t.Fatalf("message should name the stem: %q", err.Error())
	}
}

func TestLocateFileStem_StatError(t *testing.T) {
	orig := statFile
	statFile = func(string) (fs.FileInfo, error) { return nil, fs.ErrPermission }
	defer func() { statFile = orig }()
	if len(SupportedFormats()) == 0 {
		t.Skip("no formats compiled in")
	}
	_, err := LocateFileStem("cfg")
	if !errors.Is(err, ErrIO) || !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected ErrIO wrapping fs.ErrPermission, got %v", err)
	}
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	for _, f := range SupportedFormats() {
		t.Run(f.String(), func(t *testing.T) {
			path := filepath.Join(dir, "out."+f.Extensions()[0])
			if err := ToFile(path, gandalfTheGrey()); err != nil {
				t.Fatal(err)
			}
			want, err := Marshal(gandalfTheGrey(), f)
			if err != nil {
				t.Fatal(err)
			}
			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != string(want) {
				t.Fatalf("file contents differ from Marshal output\n%s\n%s", got, want)
			}
			back, err := FromFile[Wizard](path)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(back, gandalfTheGrey()) {
				t.Fatalf("got %#v", back)
			}
		})
	}
}

func TestToFile_Compressed(t *testing.T) {
	requireFormats(t, YAML)
	dir := t.TempDir()
	for _, comp := range allCompressions[1:] {
		t.Run(comp.String(), func(t *testing.T) {
			path := filepath.Join(dir, "out.yaml."+comp.Extension())
			if err := ToFile(path, oldBilbo()); err != nil {
				t.Fatal(err)
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			plain, err := Marshal(oldBilbo(), YAML)
			if err != nil {
				t.Fatal(err)
			}
			if string(raw) == string(plain) {
				t.Fatal("file is not compressed")
			}
			got, err := FromFile[Hobbit](path)
			if err != nil {
				t.Fatal(err)
			}
			if got != oldBilbo() {
				t.Fatalf("got %#v", got)
			}
		})
	}
}

func TestToFile_UnknownExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.ini", "out", "out.gz"} {
		path := filepath.Join(dir, name)
		err := ToFile(path, oldBilbo())
		var ee *ExtensionError
		if !errors.As(err, &ee) || !errors.Is(err, ErrUnsupportedExtension) {
			t.Fatalf("%s: expected *ExtensionError, got %v", name, err)
		}
		if _, statErr := os.Stat(path); !errors.Is(statErr, fs.ErrNotExist) {
			t.Fatalf("%s: file must not be created", name)
		}
	}
}

func TestToFile_EncodeErrorCreatesNothing(t *testing.T) {
	requireFormats(t, TOML)
	path := filepath.Join(t.TempDir(), "out.toml")
	if err := ToFile(path, []int{1, 2}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatal("file must not be created when encoding fails")
	}
}

func TestToFile_WriteInjection(t *testing.T) {
	requireFormats(t, JSON)
	orig := writeFile
	var gotMode fs.FileMode
	writeFile = func(_ string, _ []byte, mode fs.FileMode) error {
		gotMode = mode
		return fs.ErrPermission
	}
	defer func() { writeFile = orig }()

	err := ToFile("out.json", oldBilbo(), WithFileMode(0o600))
	if !errors.Is(err, ErrIO) || !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected ErrIO wrapping fs.ErrPermission, got %v", err)
	}
	if gotMode != 0o600 {
		t.Fatalf("file mode not passed through: %v", gotMode)
	}
}

func TestExtensionErrorMessage(t *testing.T) {
	if got := (&ExtensionError{Ext: "ini"}).Error(); got != `polyfmt: unsupported file extension "ini"` {
		t.Fatalf("got %q", got)
	}
	if got := (&ExtensionError{}).Error(); got != "polyfmt: unsupported file extension: file has no extension" {
		t.Fatalf("got %q", got)
	}
}

func TestProbeFile(t *testing.T) {
	requireFormats(t, TOML, JSON, YAML)
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	writeTestFile(t, path, "name: Sam\n")

	got, f, err := ProbeFile[Hobbit](path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f != YAML || got.Name != "Sam" {
		t.Fatalf("got %#v from %s", got, f)
	}

	// Explicit candidates override the extension and are probed.
	_, _, err = ProbeFile[Hobbit](path, []Format{JSON})
	var pe *ProbeError
	if !errors.As(err, &pe) || len(pe.Attempts) != 1 {
		t.Fatalf("expected single-attempt ProbeError, got %v", err)
	}

	jsonPath := filepath.Join(dir, "data.json")
	writeTestFile(t, jsonPath, `{"name": "Sam"}`)
	_, f, err = ProbeFile[Hobbit](jsonPath, nil)
	if err != nil || f != JSON {
		t.Fatalf("got %s, %v", f, err)
	}
}

func TestProbeReader(t *testing.T) {
	requireFormats(t, TOML)
	got, f, err := ProbeReader[Hobbit](strings.NewReader("name = \"Sam\"\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if f != TOML || got.Name != "Sam" {
		t.Fatalf("got %#v from %s", got, f)
	}
	if _, _, err := ProbeReader[Hobbit](errReader{}, nil); !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}
