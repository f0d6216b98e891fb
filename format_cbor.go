//go:build !polyfmt_nocbor

package polyfmt

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

func init() {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	register(CBOR, &codec{
		decode: dm.Unmarshal,
		encode: em.Marshal,
	})
}
