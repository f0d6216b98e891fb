package polyfmt

import (
	"go.uber.org/zap"
)

// Probe decodes data with each candidate format in turn and returns the first value
// that decodes without error, together with the format that produced it.
//
// Each attempt decodes into a fresh T, so a failed attempt never leaks into the result.
// Probing stops at the first success; the formats after it are not tried. When every
// candidate fails the error is a *ProbeError holding one Attempt per candidate in
// order. An empty candidate list fails with ErrNoCandidates without decoding anything.
//
// A format that accepts the input is a match even if another format would have
// accepted it too: the candidate order alone decides.
func Probe[T any](data []byte, candidates []Format, opts ...ReadOption) (T, Format, error) {
	cfg := newReadConfig(opts)
	data, err := unwrapInput(data, cfg)
	if err != nil {
		var zero T
		return zero, 0, err
	}
	return probe[T](data, candidates, cfg)
}

// ProbeAll is Probe over SupportedFormats.
func ProbeAll[T any](data []byte, opts ...ReadOption) (T, Format, error) {
	return Probe[T](data, SupportedFormats(), opts...)
}

func probe[T any](data []byte, candidates []Format, cfg *readConfig) (T, Format, error) {
	var zero T
	if len(candidates) == 0 {
		return zero, 0, ErrNoCandidates
	}
	attempts := make([]Attempt, 0, len(candidates))
	for i, f := range candidates {
		v, err := decodeAs[T](data, f)
		if err == nil {
			cfg.logger.Debug("probe matched",
				zap.Stringer("format", f),
				zap.Int("attempt", i+1),
				zap.Int("candidates", len(candidates)))
			return v, f, nil
		}
		cfg.logger.Debug("probe rejected",
			zap.Stringer("format", f),
			zap.Int("attempt", i+1),
			zap.Error(err))
		attempts = append(attempts, Attempt{Format: f, Err: err})
	}
	return zero, 0, &ProbeError{Attempts: attempts}
}

func decodeAs[T any](data []byte, f Format) (T, error) {
	var v T
	c, err := lookup(f)
	if err != nil {
		return v, err
	}
	if err := c.decode(data, &v); err != nil {
		var zero T
		return zero, &FormatError{Format: f, Op: "decode", Err: err}
	}
	return v, nil
}
