package polyfmt

// ExpandStem lists the file names tried by FromFileStem, in the order they are tried:
// supported formats in registry order and, within a format, its primary extension
// before its aliases.
func ExpandStem(stem string) []StemCandidate {
	var out []StemCandidate
	for _, f := range SupportedFormats() {
		for _, ext := range formatExtensions[f] {
			out = append(out, StemCandidate{Path: stem + "." + ext, Format: f})
		}
	}
	return out
}
