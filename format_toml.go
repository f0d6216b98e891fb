//go:build !polyfmt_notoml

package polyfmt

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

func init() {
	register(TOML, &codec{
		decode: toml.Unmarshal,
		encode: tomlEncode,
	})
}

func tomlEncode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
