// Package polyfmt serializes and deserializes Go values in a format chosen at runtime.
//
// The supported formats are TOML, JSON, YAML, RON, XML and CBOR. A format can be
// named explicitly, inferred from a file name's extension, or guessed by decoding the
// input with every supported format in turn until one succeeds.
//
// # Choosing a format
//
// Fixed-format calls take a [Format]:
//
//	p, err := polyfmt.FromStr[Person](data, polyfmt.JSON)
//	s, err := polyfmt.ToString(p, polyfmt.YAML)
//
// File calls infer it from the extension ("yml" and "yaml" both select YAML):
//
//	house, err := polyfmt.FromFile[House]("house.toml")
//	err = polyfmt.ToFile("house.json", house)
//
// Any-format calls guess it:
//
//	p, err := polyfmt.FromStrAny[Person](data)
//	p, f, err := polyfmt.ProbeAll[Person](raw) // f is the format that matched
//
// [ProbeFile] and [ProbeReader] do the same for files and streams. ProbeFile still
// uses a recognized extension directly and only guesses when there is none.
//
// Stem calls look for the first existing file among several extensions:
//
//	// tries settings.toml, settings.json, settings.yaml, settings.yml, settings.ron, ...
//	settings, err := polyfmt.FromFileStem[Settings]("settings")
//
// # Guessing
//
// Guessing tries formats in registry order (TOML, JSON, YAML, RON, XML, CBOR) and
// keeps the first one that decodes without error. It is not a confidence contest:
// a minimal document that several grammars accept is decoded by whichever comes
// first. YAML in particular accepts most plain text as a scalar, so guessing into an
// untyped value ([any]) rarely fails. When every format fails, the returned
// [*ProbeError] lists each format's error in the order the formats were tried.
//
// # Build tags
//
// Each format can be left out of a build with a tag: polyfmt_notoml, polyfmt_nojson,
// polyfmt_noyaml, polyfmt_noron, polyfmt_noxml, polyfmt_nocbor. Left-out formats are
// never probed and fixed-format calls naming them fail with [ErrUnsupportedFormat].
//
// # Struct tags
//
// Each format library reads its own struct tags: json for JSON, RON and CBOR, yaml
// for YAML, toml for TOML and xml for XML. A type meant to move between formats
// should carry all of them.
//
// # Compression
//
// File names may carry a .gz, .zst, .lz4 or .br suffix after the format extension.
// Such files are transparently decompressed on read and compressed on write, within
// the bounds set by [Limits].
package polyfmt
