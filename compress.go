package polyfmt

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is an optional wrapper applied around the encoded document.
type Compression uint8

const (
	CompNone Compression = iota
	CompGzip
	CompZSTD
	CompLZ4
	CompBR
)

var compressionSuffixes = map[string]Compression{
	"gz":  CompGzip,
	"zst": CompZSTD,
	"lz4": CompLZ4,
	"br":  CompBR,
}

func (c Compression) String() string {
	switch c {
	case CompNone:
		return "none"
	case CompGzip:
		return "gzip"
	case CompZSTD:
		return "zstd"
	case CompLZ4:
		return "lz4"
	case CompBR:
		return "brotli"
	default:
		return "unknown"
	}
}

// Extension returns the file suffix (without the dot) that selects c.
func (c Compression) Extension() string {
	for ext, comp := range compressionSuffixes {
		if comp == c {
			return ext
		}
	}
	return ""
}

// CompressionFromPath splits a trailing compression suffix off path.
// "cfg.yaml.zst" yields CompZSTD and "cfg.yaml"; a path without a recognized
// suffix yields CompNone and the path unchanged.
func CompressionFromPath(path string) (Compression, string) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if comp, ok := compressionSuffixes[ext]; ok {
		return comp, path[:len(path)-len(ext)-1]
	}
	return CompNone, path
}

// Function variables for testing injection.
var (
	newZstdWriter = func() (*zstd.Encoder, error) { return zstd.NewWriter(nil) }
	newZstdReader = func(r io.Reader) (*zstd.Decoder, error) { return zstd.NewReader(r) }
	readAll       = io.ReadAll
	gzipClose     = func(w *gzip.Writer) error { return w.Close() }
	lz4Close      = func(w *lz4.Writer) error { return w.Close() }
	brotliClose   = func(w *brotli.Writer) error { return w.Close() }
)

// compress wraps data using the given algorithm. CompNone returns data as-is.
func compress(comp Compression, data []byte) ([]byte, error) {
	switch comp {
	case CompNone:
		return data, nil
	case CompGzip:
		return gzipCompress(data)
	case CompZSTD:
		return zstdCompress(data)
	case CompLZ4:
		var buf bytes.Buffer
		if err := lz4CompressTo(&buf, data); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompBR:
		var buf bytes.Buffer
		if err := brotliCompressTo(&buf, data); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidPayload, comp)
	}
}

// decompress unwraps data, refusing to produce more than maxOut bytes.
func decompress(comp Compression, data []byte, maxOut int64) ([]byte, error) {
	switch comp {
	case CompNone:
		return data, nil
	case CompGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrInvalidPayload, err)
		}
		defer r.Close()
		return readLimited(r, maxOut, comp)
	case CompZSTD:
		dec, err := newZstdReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrInvalidPayload, err)
		}
		defer dec.Close()
		return readLimited(dec, maxOut, comp)
	case CompLZ4:
		return readLimited(lz4.NewReader(bytes.NewReader(data)), maxOut, comp)
	case CompBR:
		return readLimited(brotli.NewReader(bytes.NewReader(data)), maxOut, comp)
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidPayload, comp)
	}
}

// readLimited drains r, failing once more than maxOut bytes come out of it.
func readLimited(r io.Reader, maxOut int64, comp Compression) ([]byte, error) {
	b, err := readAll(io.LimitReader(r, maxOut+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, comp, err)
	}
	if int64(len(b)) > maxOut {
		return nil, fmt.Errorf("%w: %s expanded beyond %d bytes", ErrLimitExceeded, comp, maxOut)
	}
	return b, nil
}

func gzipCompress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(in); err != nil {
		_ = gzipClose(zw)
		return nil, err
	}
	if err := gzipClose(zw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func zstdCompress(in []byte) ([]byte, error) {
	enc, err := newZstdWriter()
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(in, nil), nil
}

// lz4CompressTo writes LZ4-compressed data to w.
func lz4CompressTo(w io.Writer, in []byte) error {
	zw := lz4.NewWriter(w)
	if _, err := zw.Write(in); err != nil {
		_ = lz4Close(zw)
		return err
	}
	return lz4Close(zw)
}

// brotliCompressTo writes Brotli-compressed data to w.
func brotliCompressTo(w io.Writer, in []byte) error {
	bw := brotli.NewWriter(w)
	if _, err := bw.Write(in); err != nil {
		_ = brotliClose(bw)
		return err
	}
	return brotliClose(bw)
}
