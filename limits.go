package polyfmt

// Limits bounds how much data a single call will materialize in memory.
type Limits struct {
	MaxInputSize    int64 // bytes read from a reader or file, before decompression
	MaxDecompressed int64 // bytes produced by decompressing a compressed input
}

func defaultLimits() Limits {
	return Limits{
		MaxInputSize:    256 << 20, // 256 MiB
		MaxDecompressed: 256 << 20, // 256 MiB
	}
}

// DefaultLimits returns the limits used when no WithReadLimits option is given.
func DefaultLimits() Limits {
	return defaultLimits()
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxInputSize <= 0 {
		l.MaxInputSize = d.MaxInputSize
	}
	if l.MaxDecompressed <= 0 {
		l.MaxDecompressed = d.MaxDecompressed
	}
	return l
}
