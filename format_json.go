//go:build !polyfmt_nojson

package polyfmt

import "encoding/json"

func init() {
	register(JSON, &codec{
		decode: json.Unmarshal,
		encode: json.Marshal,
	})
}
