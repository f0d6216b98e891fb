package polyfmt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Function variables for testing injection.
var (
	openFile  = func(name string) (fs.File, error) { return os.Open(name) }
	statFile  = os.Stat
	writeFile = os.WriteFile
)

// FromFile reads and decodes the file at path.
//
// A trailing compression suffix (.gz, .zst, .lz4, .br) is removed and the contents
// are decompressed first. The remaining extension selects the format: when it names
// exactly one supported format the file is decoded with it directly; otherwise every
// format it names, or every supported format if it names none, is probed in order.
//
// Failing to open or read the file yields an error wrapping ErrIO and the underlying
// *fs.PathError, so a missing file stays distinguishable from a malformed one.
func FromFile[T any](path string, opts ...ReadOption) (T, error) {
	v, _, err := ProbeFile[T](path, nil, opts...)
	return v, err
}

// ProbeFile is FromFile that also reports which format decoded the file. A non-empty
// candidates list replaces the formats the extension would select and is always
// probed, even when it holds a single format.
func ProbeFile[T any](path string, candidates []Format, opts ...ReadOption) (T, Format, error) {
	var zero T
	cfg := newReadConfig(opts)
	data, inner, err := readFile(path, cfg)
	if err != nil {
		return zero, 0, err
	}
	if len(candidates) > 0 {
		return probe[T](data, candidates, cfg)
	}
	candidates = ResolveExtension(inner)
	switch len(candidates) {
	case 1:
		cfg.logger.Debug("format resolved from extension",
			zap.String("path", path),
			zap.Stringer("format", candidates[0]))
		v, err := decodeAs[T](data, candidates[0])
		return v, candidates[0], err
	case 0:
		cfg.logger.Debug("extension selects no format, probing",
			zap.String("path", path))
		candidates = SupportedFormats()
	}
	return probe[T](data, candidates, cfg)
}

// LocateFileStem returns the first candidate of ExpandStem(stem) that exists as a
// regular file. Later candidates are not checked. It fails with ErrNoMatchingFile
// when none exists.
func LocateFileStem(stem string) (StemCandidate, error) {
	for _, c := range ExpandStem(stem) {
		fi, err := statFile(c.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return StemCandidate{}, ioError(err)
		}
		if fi.IsDir() {
			continue
		}
		return c, nil
	}
	return StemCandidate{}, fmt.Errorf("%w: %s.{%s}", ErrNoMatchingFile, stem, strings.Join(SupportedExtensions(), ","))
}

// FromFileStem loads the first existing file among stem.toml, stem.json, stem.yaml,
// stem.yml, stem.ron … (see ExpandStem) and decodes it with the format its extension
// names. The file that exists is the only one attempted: if it fails to decode, that
// error is returned and later candidates are not consulted.
//
//	settings, err := polyfmt.FromFileStem[Settings]("settings")
func FromFileStem[T any](stem string, opts ...ReadOption) (T, error) {
	v, _, err := LoadFileStem[T](stem, opts...)
	return v, err
}

// LoadFileStem is FromFileStem that also reports which candidate was loaded. On a
// decode error the candidate is still returned.
func LoadFileStem[T any](stem string, opts ...ReadOption) (T, StemCandidate, error) {
	var zero T
	cfg := newReadConfig(opts)
	c, err := LocateFileStem(stem)
	if err != nil {
		return zero, c, err
	}
	cfg.logger.Debug("stem matched", zap.String("path", c.Path), zap.Stringer("format", c.Format))
	data, _, err := readFile(c.Path, cfg)
	if err != nil {
		return zero, c, err
	}
	v, err := decodeAs[T](data, c.Format)
	return v, c, err
}

// ToFile encodes v in the format named by the extension of path and writes it there.
//
// A trailing compression suffix selects compression and the extension before it the
// format, so "out.json.zst" is zstd-compressed JSON. An extension that names no
// supported format is an *ExtensionError: unlike decoding, there is nothing to probe.
// The file is only created once encoding has succeeded.
func ToFile(path string, v any, opts ...WriteOption) error {
	cfg := newWriteConfig(opts)
	comp, inner := CompressionFromPath(path)
	candidates := ResolveExtension(inner)
	if len(candidates) == 0 {
		return &ExtensionError{Ext: extensionOf(inner)}
	}
	f := candidates[0]
	b, err := encodeTo(v, f, comp)
	if err != nil {
		return err
	}
	cfg.logger.Debug("writing file",
		zap.String("path", path),
		zap.Stringer("format", f),
		zap.Stringer("compression", comp),
		zap.Int("bytes", len(b)))
	if err := writeFile(path, b, cfg.fileMode); err != nil {
		return ioError(err)
	}
	return nil
}

// readFile returns the decompressed contents of path and the name left once the
// compression suffix is removed.
func readFile(path string, cfg *readConfig) ([]byte, string, error) {
	comp, inner := CompressionFromPath(path)
	if comp == CompNone {
		comp = cfg.compression
	}
	f, err := openFile(path)
	if err != nil {
		return nil, "", ioError(err)
	}
	defer f.Close()
	b, err := readBounded(f, cfg.limits.MaxInputSize)
	if err != nil {
		return nil, "", err
	}
	data, err := decompress(comp, b, cfg.limits.MaxDecompressed)
	if err != nil {
		return nil, "", err
	}
	return data, inner, nil
}
