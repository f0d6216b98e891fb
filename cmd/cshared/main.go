// Package main provides C-compatible exports for the polyfmt library.
// Build with: go build -buildmode=c-shared -o polyfmt.dll ./cmd/cshared
package main

/*
#include <stdlib.h>
#include <stdint.h>

// Result structure for operations that return data
typedef struct {
    char* data;
    int   data_len;
    char* error;
} PolyfmtResult;
*/
import "C"

import (
	"strings"
	"unsafe"

	"github.com/logicossoftware/go-polyfmt"
)

// apiVersion is bumped whenever an export changes signature.
const apiVersion = 1

func main() {}

// PolyfmtVersion returns the version of this C interface.
//
//export PolyfmtVersion
func PolyfmtVersion() C.uint16_t {
	return C.uint16_t(apiVersion)
}

// PolyfmtFreeResult frees memory allocated by other Polyfmt functions.
// Must be called to avoid memory leaks.
//
//export PolyfmtFreeResult
func PolyfmtFreeResult(result C.PolyfmtResult) {
	if result.data != nil {
		C.free(unsafe.Pointer(result.data))
	}
	if result.error != nil {
		C.free(unsafe.Pointer(result.error))
	}
}

// PolyfmtFreeString frees a C string allocated by Go.
//
//export PolyfmtFreeString
func PolyfmtFreeString(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func makeResult(data []byte) C.PolyfmtResult {
	var result C.PolyfmtResult
	if len(data) > 0 {
		result.data = (*C.char)(C.CBytes(data))
		result.data_len = C.int(len(data))
	}
	return result
}

func makeError(err error) C.PolyfmtResult {
	var result C.PolyfmtResult
	result.error = C.CString(err.Error())
	return result
}

// candidateList parses a comma-separated list of format names. NULL or an empty
// string selects every supported format.
func candidateList(s *C.char) ([]polyfmt.Format, error) {
	if s == nil {
		return nil, nil
	}
	var out []polyfmt.Format
	for _, name := range strings.Split(C.GoString(s), ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := polyfmt.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func probeBytes(data *C.char, dataLen C.int, candidates *C.char) (any, polyfmt.Format, error) {
	cands, err := candidateList(candidates)
	if err != nil {
		return nil, 0, err
	}
	if len(cands) == 0 {
		cands = polyfmt.SupportedFormats()
	}
	return polyfmt.Probe[any](C.GoBytes(unsafe.Pointer(data), dataLen), cands)
}

// PolyfmtFormats returns the comma-separated names of the formats compiled into
// the library. Call PolyfmtFreeString on the result.
//
//export PolyfmtFormats
func PolyfmtFormats() *C.char {
	var names []string
	for _, f := range polyfmt.SupportedFormats() {
		names = append(names, f.String())
	}
	return C.CString(strings.Join(names, ","))
}

// PolyfmtDetect reports the first format that parses the input.
// Parameters:
//   - data: pointer to the document bytes
//   - dataLen: length of the data
//   - candidates: optional comma-separated format names tried in order (can be NULL)
//
// Returns PolyfmtResult with the format name or error. Call PolyfmtFreeResult when done.
//
//export PolyfmtDetect
func PolyfmtDetect(data *C.char, dataLen C.int, candidates *C.char) C.PolyfmtResult {
	_, f, err := probeBytes(data, dataLen, candidates)
	if err != nil {
		return makeError(err)
	}
	return makeResult([]byte(f.String()))
}

// PolyfmtTranscode decodes the input with the first format that parses it and
// re-encodes it in another format.
// Parameters:
//   - data: pointer to the document bytes
//   - dataLen: length of the data
//   - candidates: optional comma-separated input format names (can be NULL)
//   - to: output format name
//
// Returns PolyfmtResult with the encoded bytes or error. Call PolyfmtFreeResult when done.
//
//export PolyfmtTranscode
func PolyfmtTranscode(data *C.char, dataLen C.int, candidates *C.char, to *C.char) C.PolyfmtResult {
	out, err := polyfmt.ParseFormat(C.GoString(to))
	if err != nil {
		return makeError(err)
	}
	v, _, err := probeBytes(data, dataLen, candidates)
	if err != nil {
		return makeError(err)
	}
	b, err := polyfmt.Marshal(v, out)
	if err != nil {
		return makeError(err)
	}
	return makeResult(b)
}

// PolyfmtCheck reports whether any of the candidate formats parses the input.
// Returns NULL on success, or an error message listing every format's failure.
// Call PolyfmtFreeString on the result if non-NULL.
//
//export PolyfmtCheck
func PolyfmtCheck(data *C.char, dataLen C.int, candidates *C.char) *C.char {
	if _, _, err := probeBytes(data, dataLen, candidates); err != nil {
		return C.CString(err.Error())
	}
	return nil
}
