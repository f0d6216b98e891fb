//go:build !polyfmt_noxml

package polyfmt

import (
	"encoding/xml"
	"errors"
)

var errXMLUntyped = errors.New("cannot decode into an untyped value")

func init() {
	register(XML, &codec{
		decode: xmlDecode,
		encode: xml.Marshal,
	})
}

// encoding/xml silently skips interface targets, which would turn any well-formed
// document into a nil value.
func xmlDecode(data []byte, v any) error {
	if _, ok := v.(*any); ok {
		return errXMLUntyped
	}
	return xml.Unmarshal(data, v)
}
