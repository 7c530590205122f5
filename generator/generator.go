package generator

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var reMethod = regexp.MustCompile(`^[a-zA-Z]+$`)

type Method string

const (
	MethodGet     = Method("GET")
	MethodPost    = Method("POST")
	MethodPut     = Method("PUT")
	MethodDelete  = Method("DELETE")
	MethodPatch   = Method("PATCH")
	MethodHead    = Method("HEAD")
	MethodOptions = Method("OPTIONS")
)

// ParseMethod converts s to an upper-case Method.
func ParseMethod(s string) (Method, error) {
	if !reMethod.MatchString(s) {
		return Method(""), errors.Errorf("METHOD must consist of alphabets: %s", s)
	}
	return Method(strings.ToUpper(s)), nil
}

// Descriptor describes one HTTP request to issue.
// URI is usually a path relative to the benchmark target.
type Descriptor struct {
	Method Method
	URI    string
	Data   string
	Header http.Header // optional
}

// Options is the configuration mapping handed to Generate on every call.
// Its keys are chosen by whoever runs the benchmark.
type Options map[string]interface{}

// Generator produces the next request to perform.
// Generate is called from many workers at once and must be safe for concurrent use.
type Generator interface {
	Generate(options Options) Descriptor
}

// GeneratorFunc adapts an ordinary function to a Generator.
type GeneratorFunc func(options Options) Descriptor

func (f GeneratorFunc) Generate(options Options) Descriptor {
	return f(options)
}
