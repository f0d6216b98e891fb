// Package ron reads and writes RON (Rusty Object Notation).
//
// Decoding parses the document into a generic tree (maps, slices, strings,
// json.Number, bools and nil) and assigns that tree into the target through
// encoding/json, so targets are matched using their json struct tags. Struct and
// enum names in the document are accepted and ignored:
//
//	Hobbit(name: "Bilbo Baggins", age: 50, has_ring: false)
//
// decodes exactly like
//
//	(name: "Bilbo Baggins", age: 50, has_ring: false)
//
// Some(x) decodes as x and None as null. A named tuple with one element, a newtype,
// decodes as its element.
//
// Encoding writes compact RON: structs as (field:value,...), maps as {key:value,...}
// with sorted keys, slices as [...], nil pointers, slices and maps as None. Floats are
// always written with a fractional part or exponent so they read back as floats.
//
// Values travel through JSON on the way in, so numbers assigned into an interface
// become float64. inf, -inf and NaN are stored separately after the JSON step, into
// float fields, map values, slice elements and interfaces.
package ron
