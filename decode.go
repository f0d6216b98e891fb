package polyfmt

import (
	"fmt"
	"io"
)

// Unmarshal decodes data in format f into the value pointed to by v.
//
// Unmarshal returns an error wrapping ErrUnsupportedFormat if f is not compiled into
// this build, or a *FormatError wrapping the format library's error if decoding fails.
func Unmarshal(data []byte, f Format, v any) error {
	c, err := lookup(f)
	if err != nil {
		return err
	}
	if err := c.decode(data, v); err != nil {
		return &FormatError{Format: f, Op: "decode", Err: err}
	}
	return nil
}

// FromSlice decodes data as format f.
func FromSlice[T any](data []byte, f Format, opts ...ReadOption) (T, error) {
	cfg := newReadConfig(opts)
	data, err := unwrapInput(data, cfg)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeAs[T](data, f)
}

// FromStr decodes s as format f.
//
//	type Person struct {
//		Name      string `json:"name"`
//		Knowledge int    `json:"knowledge"`
//	}
//	p, err := polyfmt.FromStr[Person](`{"name": "Jon Snow", "knowledge": 0}`, polyfmt.JSON)
func FromStr[T any](s string, f Format, opts ...ReadOption) (T, error) {
	return FromSlice[T]([]byte(s), f, opts...)
}

// FromReader reads r to the end and decodes the contents as format f.
// Read failures wrap ErrIO; inputs larger than Limits.MaxInputSize fail with
// ErrLimitExceeded.
func FromReader[T any](r io.Reader, f Format, opts ...ReadOption) (T, error) {
	cfg := newReadConfig(opts)
	data, err := readInput(r, cfg)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeAs[T](data, f)
}

// FromSliceAny decodes data with the first supported format that accepts it.
// See Probe for the exact rules; use ProbeAll to also learn which format matched.
func FromSliceAny[T any](data []byte, opts ...ReadOption) (T, error) {
	v, _, err := ProbeAll[T](data, opts...)
	return v, err
}

// FromStrAny decodes s with the first supported format that accepts it.
func FromStrAny[T any](s string, opts ...ReadOption) (T, error) {
	return FromSliceAny[T]([]byte(s), opts...)
}

// FromReaderAny reads r to the end and decodes the contents with the first supported
// format that accepts them.
func FromReaderAny[T any](r io.Reader, opts ...ReadOption) (T, error) {
	cfg := newReadConfig(opts)
	data, err := readInput(r, cfg)
	if err != nil {
		var zero T
		return zero, err
	}
	v, _, err := probe[T](data, SupportedFormats(), cfg)
	return v, err
}

// ProbeReader reads r to the end and probes the contents with candidates, or with
// every supported format when candidates is empty.
func ProbeReader[T any](r io.Reader, candidates []Format, opts ...ReadOption) (T, Format, error) {
	cfg := newReadConfig(opts)
	data, err := readInput(r, cfg)
	if err != nil {
		var zero T
		return zero, 0, err
	}
	if len(candidates) == 0 {
		candidates = SupportedFormats()
	}
	return probe[T](data, candidates, cfg)
}

// readInput materializes r within the configured limits and removes any compression
// requested through WithDecompression.
func readInput(r io.Reader, cfg *readConfig) ([]byte, error) {
	b, err := readBounded(r, cfg.limits.MaxInputSize)
	if err != nil {
		return nil, err
	}
	return unwrapInput(b, cfg)
}

func readBounded(r io.Reader, limit int64) ([]byte, error) {
	b, err := readAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, ioError(err)
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%w: input larger than %d bytes", ErrLimitExceeded, limit)
	}
	return b, nil
}

func unwrapInput(data []byte, cfg *readConfig) ([]byte, error) {
	return decompress(cfg.compression, data, cfg.limits.MaxDecompressed)
}
