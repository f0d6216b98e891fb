package polyfmt

// codec is the capability pair every format contributes to the registry.
type codec struct {
	decode func(data []byte, v any) error
	encode func(v any) ([]byte, error)
}

// registry is filled by the format_*.go init functions and never written afterwards.
var registry [numFormats]*codec

func register(f Format, c *codec) {
	if registry[f] != nil {
		panic("polyfmt: format registered twice: " + f.String())
	}
	registry[f] = c
}

// IsSupported reports whether f is compiled into this build.
func (f Format) IsSupported() bool {
	return f < numFormats && registry[f] != nil
}

// SupportedFormats returns the formats compiled into this build in registry order.
func SupportedFormats() []Format {
	out := make([]Format, 0, numFormats)
	for f := Format(0); f < numFormats; f++ {
		if registry[f] != nil {
			out = append(out, f)
		}
	}
	return out
}

// SupportedExtensions returns the extensions of every supported format, grouped by
// format in registry order.
func SupportedExtensions() []string {
	var out []string
	for _, f := range SupportedFormats() {
		out = append(out, formatExtensions[f]...)
	}
	return out
}

func lookup(f Format) (*codec, error) {
	if !f.IsSupported() {
		return nil, &FormatError{Format: f, Op: "lookup", Err: ErrUnsupportedFormat}
	}
	return registry[f], nil
}
