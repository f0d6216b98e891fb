//go:build !polyfmt_noron

package polyfmt

import "github.com/logicossoftware/go-polyfmt/internal/ron"

func init() {
	register(RON, &codec{
		decode: ron.Unmarshal,
		encode: ron.Marshal,
	})
}
