package input

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"net/url"
	"regexp"
	"strings"

	"github.com/nojima/httpbench-go/generator"
	"github.com/pkg/errors"
)

var (
	reMethod          = regexp.MustCompile(`^[a-zA-Z]+$`)
	reHeaderFieldName = regexp.MustCompile("^[-!#$%&'*+.^_|~a-zA-Z0-9]+$")
	reScheme          = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+-.]*://`)
)

type itemType int

const (
	unknownItem itemType = iota
	httpHeaderItem
	urlParameterItem
	dataFieldItem
	rawJSONFieldItem
)

type UsageError string

func (e *UsageError) Error() string {
	return string(*e)
}

func newUsageError(message string) error {
	u := UsageError(message)
	return errors.WithStack(&u)
}

type state struct {
	preferredBodyType BodyType
	stdinConsumed     bool
}

// ParseArgs parses "[METHOD] URI [REQUEST_ITEM ...]".
func ParseArgs(args []string, stdin io.Reader, options *Options) (*Input, error) {
	var argMethod string
	var argURI string
	var argItems []string
	switch len(args) {
	case 0:
		return nil, newUsageError("URI is required")
	case 1:
		argURI = args[0]
	default:
		if reMethod.MatchString(args[0]) {
			argMethod = args[0]
			argURI = args[1]
			argItems = args[2:]
		} else {
			argURI = args[0]
			argItems = args[1:]
		}
	}

	in := Input{}
	state := state{}

	u, err := parseURI(argURI)
	if err != nil {
		return nil, err
	}
	in.URI = u

	state.preferredBodyType, err = determinePreferredBodyType(options)
	if err != nil {
		return nil, err
	}

	for _, arg := range argItems {
		if err := parseItem(arg, stdin, &state, &in); err != nil {
			return nil, err
		}
	}
	if options.ReadStdin && !state.stdinConsumed {
		if in.Body.BodyType != EmptyBody {
			return nil, errors.New("request body (from stdin) and request item (key=value) cannot be mixed")
		}
		raw, err := ioutil.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read stdin")
		}
		// An empty stdin (e.g. /dev/null under a scheduler) means no body
		if len(raw) > 0 {
			in.Body.BodyType = RawBody
			in.Body.Raw = raw
		}
		state.stdinConsumed = true
	}

	if argMethod != "" {
		method, err := generator.ParseMethod(argMethod)
		if err != nil {
			return nil, err
		}
		in.Method = method
	} else {
		in.Method = guessMethod(&in)
	}

	return &in, nil
}

func determinePreferredBodyType(options *Options) (BodyType, error) {
	if options.JSON && options.Form {
		return EmptyBody, errors.New("You cannot specify both of --json and --form")
	}
	if options.JSON {
		return JSONBody, nil
	}
	return FormBody, nil
}

func guessMethod(in *Input) generator.Method {
	if in.Body.BodyType == EmptyBody {
		return generator.MethodGet
	}
	return generator.MethodPost
}

// ParseBaseURL completes shorthand such as ":8080" or "example.com" into a full URL.
func ParseBaseURL(s string) (*url.URL, error) {
	defaultScheme := "http"
	defaultHost := "localhost"

	// ex) :8080/hello or /hello
	if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "/") {
		s = defaultHost + s
	}

	// ex) example.com/hello
	if !reScheme.MatchString(s) {
		s = defaultScheme + "://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, newUsageError("Invalid URL: " + s)
	}
	u.Host = strings.TrimSuffix(u.Host, ":")
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

func parseURI(s string) (*url.URL, error) {
	if !reScheme.MatchString(s) && !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, newUsageError("Invalid URI: " + s)
	}
	return u, nil
}

func parseItem(s string, stdin io.Reader, state *state, in *Input) error {
	itemType, name, value := splitItem(s)
	switch itemType {
	case dataFieldItem:
		in.Body.BodyType = state.preferredBodyType
		field, err := parseField(name, value, stdin, state)
		if err != nil {
			return err
		}
		in.Body.Fields = append(in.Body.Fields, field)
	case rawJSONFieldItem:
		if state.preferredBodyType != JSONBody {
			return errors.New("raw JSON field item cannot be used in non-JSON body (perhaps you meant --json?)")
		}
		in.Body.BodyType = JSONBody
		field, err := parseField(name, value, stdin, state)
		if err != nil {
			return err
		}
		if !field.IsFile && !json.Valid([]byte(field.Value)) {
			return errors.Errorf("invalid JSON at '%s': %s", name, field.Value)
		}
		in.Body.RawJSONFields = append(in.Body.RawJSONFields, field)
	case httpHeaderItem:
		if !isValidHeaderFieldName(name) {
			return errors.Errorf("invalid header field name: %s", name)
		}
		field, err := parseField(name, value, stdin, state)
		if err != nil {
			return err
		}
		in.Header.Fields = append(in.Header.Fields, field)
	case urlParameterItem:
		field, err := parseField(name, value, stdin, state)
		if err != nil {
			return err
		}
		in.Parameters = append(in.Parameters, field)
	default:
		return errors.Errorf("unknown request item: %s", s)
	}
	return nil
}

func splitItem(s string) (itemType, string, string) {
	for i, c := range s {
		switch c {
		case ':':
			if i+1 < len(s) && s[i+1] == '=' {
				return rawJSONFieldItem, s[:i], s[i+2:]
			}
			return httpHeaderItem, s[:i], s[i+1:]
		case '=':
			if i+1 < len(s) && s[i+1] == '=' {
				return urlParameterItem, s[:i], s[i+2:]
			}
			return dataFieldItem, s[:i], s[i+1:]
		}
	}
	return unknownItem, "", ""
}

func isValidHeaderFieldName(s string) bool {
	return reHeaderFieldName.MatchString(s)
}

func parseField(name, value string, stdin io.Reader, state *state) (Field, error) {
	if !strings.HasPrefix(value, "@") {
		return Field{Name: name, Value: value, IsFile: false}, nil
	}
	if value[1:] == "-" {
		b, err := ioutil.ReadAll(stdin)
		if err != nil {
			return Field{}, errors.Wrapf(err, "reading stdin for '%s'", name)
		}
		state.stdinConsumed = true
		return Field{Name: name, Value: string(b), IsFile: false}, nil
	}
	return Field{Name: name, Value: value[1:], IsFile: true}, nil
}
