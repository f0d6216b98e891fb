// Command polyfmt reads, detects and converts configuration documents.
package main

import "github.com/logicossoftware/go-polyfmt/internal/app"

func main() {
	app.Main()
}
