package polyfmt

import (
	"path/filepath"
	"strings"
)

// extensionOf returns the case-folded text after the last '.' of the base name,
// or "" when there is none.
func extensionOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filepath.Base(name)), "."))
}

// ResolveExtension maps a file name to the supported formats its extension selects,
// in registry order. It returns nil when the name has no extension or the extension
// belongs to no supported format; callers must not substitute a default.
func ResolveExtension(name string) []Format {
	ext := extensionOf(name)
	if ext == "" {
		return nil
	}
	var out []Format
	for _, f := range SupportedFormats() {
		for _, e := range formatExtensions[f] {
			if e == ext {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// GuessFormat returns the format a path's extension names. Unlike ResolveExtension it
// also recognizes formats that are not compiled into this build.
func GuessFormat(path string) (Format, bool) {
	return GuessFormatFromExtension(extensionOf(path))
}

// GuessFormatFromExtension is GuessFormat for a bare extension such as "yml".
func GuessFormatFromExtension(ext string) (Format, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return 0, false
	}
	for f := Format(0); f < numFormats; f++ {
		for _, e := range formatExtensions[f] {
			if e == ext {
				return f, true
			}
		}
	}
	return 0, false
}
