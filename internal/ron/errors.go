package ron

import "fmt"

// SyntaxError describes malformed RON input.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("ron: line %d column %d: %s", e.Line, e.Column, e.Msg)
}

// UnsupportedTypeError is returned by Marshal for values RON cannot represent.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return "ron: unsupported type: " + e.Type
}
