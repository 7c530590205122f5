package input

import (
	"net/url"

	"github.com/nojima/httpbench-go/generator"
)

type Options struct {
	Form      bool
	JSON      bool
	ReadStdin bool
}

// Input is a request template as written on the command line, before
// field values are resolved and the body is serialized.
type Input struct {
	Method     generator.Method
	URI        *url.URL
	Parameters []Field
	Header     Header
	Body       Body
}

type Header struct {
	Fields []Field
}

type BodyType int

const (
	EmptyBody BodyType = iota
	JSONBody
	FormBody
	RawBody
)

type Body struct {
	BodyType      BodyType
	Fields        []Field
	RawJSONFields []Field // used only when BodyType == JSONBody
	Raw           []byte  // used only when BodyType == RawBody
}

type Field struct {
	Name   string
	Value  string
	IsFile bool
}
