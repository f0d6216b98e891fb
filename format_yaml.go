//go:build !polyfmt_noyaml

package polyfmt

import "gopkg.in/yaml.v3"

func init() {
	register(YAML, &codec{
		decode: yaml.Unmarshal,
		encode: yaml.Marshal,
	})
}
