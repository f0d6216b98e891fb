package polyfmt

import (
	"io"
)

// Marshal encodes v in format f.
func Marshal(v any, f Format) ([]byte, error) {
	c, err := lookup(f)
	if err != nil {
		return nil, err
	}
	b, err := c.encode(v)
	if err != nil {
		return nil, &FormatError{Format: f, Op: "encode", Err: err}
	}
	return b, nil
}

// ToString encodes v in format f and returns the result as a string.
func ToString(v any, f Format) (string, error) {
	b, err := Marshal(v, f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToVec encodes v in format f, compressing the result if WithCompression is given.
func ToVec(v any, f Format, opts ...WriteOption) ([]byte, error) {
	cfg := newWriteConfig(opts)
	return encodeTo(v, f, cfg.compression)
}

// ToWriter encodes v in format f and writes it to w. Nothing is written if encoding
// fails. Write failures wrap ErrIO.
func ToWriter(w io.Writer, v any, f Format, opts ...WriteOption) error {
	cfg := newWriteConfig(opts)
	b, err := encodeTo(v, f, cfg.compression)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return ioError(err)
	}
	return nil
}

func encodeTo(v any, f Format, comp Compression) ([]byte, error) {
	b, err := Marshal(v, f)
	if err != nil {
		return nil, err
	}
	return compress(comp, b)
}
