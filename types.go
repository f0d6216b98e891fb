package polyfmt

import (
	"fmt"
	"strings"
)

// Format identifies a serialization format.
//
// The declaration order is the canonical registry order: it is the order in which
// formats are tried when the input format has to be guessed.
type Format uint8

const (
	TOML Format = iota // TOML, disabled by the polyfmt_notoml build tag.
	JSON               // JSON, disabled by the polyfmt_nojson build tag.
	YAML               // YAML, disabled by the polyfmt_noyaml build tag.
	RON                // RON (Rusty Object Notation), disabled by the polyfmt_noron build tag.
	XML                // XML, disabled by the polyfmt_noxml build tag.
	CBOR               // CBOR, disabled by the polyfmt_nocbor build tag.

	numFormats
)

var formatNames = [numFormats]string{
	TOML: "toml",
	JSON: "json",
	YAML: "yaml",
	RON:  "ron",
	XML:  "xml",
	CBOR: "cbor",
}

// Primary extension first, aliases after it.
var formatExtensions = [numFormats][]string{
	TOML: {"toml"},
	JSON: {"json"},
	YAML: {"yaml", "yml"},
	RON:  {"ron"},
	XML:  {"xml"},
	CBOR: {"cbor"},
}

// AllFormats returns every format known to the package, whether or not it is
// compiled into this build.
func AllFormats() []Format {
	out := make([]Format, 0, numFormats)
	for f := Format(0); f < numFormats; f++ {
		out = append(out, f)
	}
	return out
}

func (f Format) String() string {
	if f >= numFormats {
		return "unknown"
	}
	return formatNames[f]
}

// Extensions returns the lowercase file extensions (without the dot) recognized
// for f. The primary extension comes first.
func (f Format) Extensions() []string {
	if f >= numFormats {
		return nil
	}
	return append([]string(nil), formatExtensions[f]...)
}

// ParseFormat returns the format with the given case-insensitive name.
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for f := Format(0); f < numFormats; f++ {
		if formatNames[f] == n {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// StemCandidate is a file name generated from a stem, paired with the format its
// extension selects.
type StemCandidate struct {
	Path   string
	Format Format
}
