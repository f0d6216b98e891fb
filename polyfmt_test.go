package polyfmt

import (
	"bytes"
	"errors"
	"io"
	"math"
	"reflect"
	"strings"
	"testing"
)

type Hobbit struct {
	Name    string `json:"name" yaml:"name" toml:"name" xml:"name"`
	Age     uint32 `json:"age" yaml:"age" toml:"age" xml:"age"`
	HasRing bool   `json:"has_ring" yaml:"has_ring" toml:"has_ring" xml:"has_ring"`
}

type Wizard struct {
	Name    string   `json:"name" yaml:"name" toml:"name" xml:"name"`
	IsLate  bool     `json:"is_late" yaml:"is_late" toml:"is_late" xml:"is_late"`
	Color   string   `json:"color" yaml:"color" toml:"color" xml:"color"`
	Age     uint32   `json:"age" yaml:"age" toml:"age" xml:"age"`
	Friends []string `json:"friends" yaml:"friends" toml:"friends" xml:"friends"`
}

func youngBilbo() Hobbit {
	return Hobbit{Name: "Bilbo Baggins", Age: 50, HasRing: false}
}

func oldBilbo() Hobbit {
	return Hobbit{Name: "Bilbo Baggins", Age: 111, HasRing: true}
}

func gandalfTheGrey() Wizard {
	return Wizard{
		Name:    "Gandalf",
		Color:   "Grey",
		Age:     9000,
		Friends: []string{"hobbits", "dwarves", "elves", "men"},
	}
}

// requireFormats skips the test when the build leaves out one of fs.
func requireFormats(t *testing.T, fs ...Format) {
	t.Helper()
	for _, f := range fs {
		if !f.IsSupported() {
			t.Skipf("format %s not compiled in", f)
		}
	}
}

func TestRoundTrip_AllFormats(t *testing.T) {
	for _, f := range SupportedFormats() {
		t.Run(f.String(), func(t *testing.T) {
			for _, in := range []Hobbit{youngBilbo(), oldBilbo()} {
				b, err := ToVec(in, f)
				if err != nil {
					t.Fatalf("ToVec: %v", err)
				}
				out, err := FromSlice[Hobbit](b, f)
				if err != nil {
					t.Fatalf("FromSlice: %v\n%s", err, b)
				}
				if !reflect.DeepEqual(in, out) {
					t.Fatalf("mismatch\nwant: %#v\ngot:  %#v", in, out)
				}
			}

			wiz := gandalfTheGrey()
			s, err := ToString(wiz, f)
			if err != nil {
				t.Fatalf("ToString: %v", err)
			}
			got, err := FromStr[Wizard](s, f)
			if err != nil {
				t.Fatalf("FromStr: %v\n%s", err, s)
			}
			if !reflect.DeepEqual(wiz, got) {
				t.Fatalf("mismatch\nwant: %#v\ngot:  %#v", wiz, got)
			}
		})
	}
}

func TestRoundTrip_RONNonFiniteFloats(t *testing.T) {
	requireFormats(t, RON)
	type reading struct {
		Low  float64   `json:"low"`
		High float64   `json:"high"`
		Seen []float64 `json:"seen"`
	}
	b, err := ToVec(reading{Low: math.Inf(-1), High: math.Inf(1), Seen: []float64{math.NaN()}}, RON)
	if err != nil {
		t.Fatal(err)
	}
	got, err := FromSlice[reading](b, RON)
	if err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	if !math.IsInf(got.Low, -1) || !math.IsInf(got.High, 1) || len(got.Seen) != 1 || !math.IsNaN(got.Seen[0]) {
		t.Fatalf("got %+v from %s", got, b)
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	for _, f := range SupportedFormats() {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := ToWriter(&buf, oldBilbo(), f); err != nil {
				t.Fatalf("ToWriter: %v", err)
			}
			got, err := FromReader[Hobbit](&buf, f)
			if err != nil {
				t.Fatalf("FromReader: %v", err)
			}
			if got != oldBilbo() {
				t.Fatalf("got %#v", got)
			}
		})
	}
}

func TestFromStr_JSON(t *testing.T) {
	requireFormats(t, JSON)
	data := `{
		"name": "Jon Snow",
		"age": 0,
		"has_ring": false
	}`
	h, err := FromStr[Hobbit](data, JSON)
	if err != nil {
		t.Fatal(err)
	}
	if h.Name != "Jon Snow" {
		t.Fatalf("got %#v", h)
	}
}

func TestFromStr_DecodeErrorIsTagged(t *testing.T) {
	requireFormats(t, JSON)
	_, err := FromStr[Hobbit](`{"name": `, JSON)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %T %v", err, err)
	}
	if fe.Format != JSON || fe.Op != "decode" {
		t.Fatalf("got format %s op %s", fe.Format, fe.Op)
	}
	if !strings.HasPrefix(err.Error(), "polyfmt: json decode: ") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestUnsupportedFormat(t *testing.T) {
	bogus := Format(200)
	if bogus.IsSupported() {
		t.Fatal("bogus format reported as supported")
	}
	if _, err := FromStr[Hobbit]("{}", bogus); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := ToString(youngBilbo(), bogus); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if err := Unmarshal([]byte("{}"), bogus, &Hobbit{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if bogus.String() != "unknown" || bogus.Extensions() != nil {
		t.Fatal("expected unknown format metadata to be empty")
	}
}

func TestUnmarshal(t *testing.T) {
	requireFormats(t, YAML)
	var h Hobbit
	if err := Unmarshal([]byte("name: Frodo\nage: 33\n"), YAML, &h); err != nil {
		t.Fatal(err)
	}
	if h.Name != "Frodo" || h.Age != 33 {
		t.Fatalf("got %#v", h)
	}
}

func TestEncodeError(t *testing.T) {
	requireFormats(t, TOML)
	// TOML documents must be tables.
	_, err := ToVec([]int{1, 2, 3}, TOML)
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Format != TOML || fe.Op != "encode" {
		t.Fatalf("expected TOML encode error, got %v", err)
	}
}

func TestToWriter_WriteErrorIsIO(t *testing.T) {
	requireFormats(t, JSON)
	err := ToWriter(errWriter{}, youngBilbo(), JSON)
	if !errors.Is(err, ErrIO) || !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("expected ErrIO wrapping io.ErrClosedPipe, got %v", err)
	}
}

func TestToWriter_EncodeErrorWritesNothing(t *testing.T) {
	requireFormats(t, JSON)
	var buf bytes.Buffer
	if err := ToWriter(&buf, make(chan int), JSON); err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %q", buf.String())
	}
}

func TestFromReader_ReadErrorIsIO(t *testing.T) {
	requireFormats(t, JSON)
	_, err := FromReader[Hobbit](errReader{}, JSON)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	_, err = FromReaderAny[Hobbit](errReader{})
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestFromAny(t *testing.T) {
	requireFormats(t, TOML, JSON, YAML)
	cases := []struct {
		name string
		in   string
	}{
		{"toml", "name = \"Bilbo Baggins\"\nage = 111\nhas_ring = true\n"},
		{"json", `{"name": "Bilbo Baggins", "age": 111, "has_ring": true}`},
		{"yaml", "name: Bilbo Baggins\nage: 111\nhas_ring: true\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromStrAny[Hobbit](tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != oldBilbo() {
				t.Fatalf("got %#v", got)
			}
			got, err = FromReaderAny[Hobbit](strings.NewReader(tc.in))
			if err != nil {
				t.Fatal(err)
			}
			if got != oldBilbo() {
				t.Fatalf("got %#v", got)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range AllFormats() {
		got, err := ParseFormat(strings.ToUpper(f.String()))
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if got != f {
			t.Fatalf("got %s want %s", got, f)
		}
	}
	if _, err := ParseFormat("ini"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFormatMetadata(t *testing.T) {
	want := map[Format][]string{
		JSON: {"json"},
		YAML: {"yaml", "yml"},
		TOML: {"toml"},
		RON:  {"ron"},
		XML:  {"xml"},
		CBOR: {"cbor"},
	}
	for f, exts := range want {
		if !reflect.DeepEqual(f.Extensions(), exts) {
			t.Fatalf("%s: got %v want %v", f, f.Extensions(), exts)
		}
	}
	// Callers must not be able to mutate the table.
	YAML.Extensions()[0] = "nope"
	if YAML.Extensions()[0] != "yaml" {
		t.Fatal("extension table mutated through returned slice")
	}
}

func TestSupportedFormatsOrder(t *testing.T) {
	got := SupportedFormats()
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("formats not in registry order: %v", got)
		}
	}
	if len(SupportedExtensions()) < len(got) {
		t.Fatalf("expected at least one extension per format")
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	requireFormats(t, JSON)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	register(JSON, registry[JSON])
}

type errWriter struct{}

func (errWriter) Write(p []byte) (int, error) { return 0, io.ErrClosedPipe }

type errReader struct{}

func (errReader) Read(p []byte) (int, error) { return 0, io.ErrUnexpectedEOF }
