package input

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/nojima/httpbench-go/generator"
	"github.com/pkg/errors"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded; charset=utf-8"
)

// Descriptor resolves file references and serializes the body. Files are
// read here, once, rather than on every generated request.
func (in *Input) Descriptor() (generator.Descriptor, error) {
	uri, err := buildURI(in)
	if err != nil {
		return generator.Descriptor{}, err
	}

	header, err := buildHeader(in)
	if err != nil {
		return generator.Descriptor{}, err
	}

	data, contentType, err := buildBody(in)
	if err != nil {
		return generator.Descriptor{}, err
	}
	if header.Get("Content-Type") == "" && contentType != "" {
		header.Set("Content-Type", contentType)
	}
	if len(header) == 0 {
		header = nil
	}

	return generator.Descriptor{
		Method: in.Method,
		URI:    uri,
		Data:   data,
		Header: header,
	}, nil
}

func buildURI(in *Input) (string, error) {
	if len(in.Parameters) == 0 {
		return in.URI.String(), nil
	}
	q, err := url.ParseQuery(in.URI.RawQuery)
	if err != nil {
		return "", errors.Wrap(err, "parsing query string")
	}
	for _, field := range in.Parameters {
		value, err := resolveFieldValue(field)
		if err != nil {
			return "", err
		}
		q.Add(field.Name, value)
	}

	u := *in.URI
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func buildHeader(in *Input) (http.Header, error) {
	header := make(http.Header)
	for _, field := range in.Header.Fields {
		value, err := resolveFieldValue(field)
		if err != nil {
			return nil, err
		}
		header.Add(field.Name, value)
	}
	return header, nil
}

func buildBody(in *Input) (string, string, error) {
	switch in.Body.BodyType {
	case EmptyBody:
		return "", "", nil
	case JSONBody:
		return buildJSONBody(in)
	case FormBody:
		return buildFormBody(in)
	case RawBody:
		return string(in.Body.Raw), sniffContentType(in.Body.Raw), nil
	default:
		return "", "", errors.Errorf("unknown body type: %v", in.Body.BodyType)
	}
}

func buildJSONBody(in *Input) (string, string, error) {
	obj := map[string]interface{}{}
	for _, field := range in.Body.Fields {
		value, err := resolveFieldValue(field)
		if err != nil {
			return "", "", err
		}
		obj[field.Name] = value
	}
	for _, field := range in.Body.RawJSONFields {
		value, err := resolveFieldValue(field)
		if err != nil {
			return "", "", err
		}
		var v interface{}
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return "", "", errors.Wrapf(err, "parsing JSON value of '%s'", field.Name)
		}
		obj[field.Name] = v
	}
	body, err := json.Marshal(obj)
	if err != nil {
		return "", "", errors.Wrap(err, "marshaling JSON of HTTP body")
	}
	return string(body), contentTypeJSON, nil
}

func buildFormBody(in *Input) (string, string, error) {
	form := url.Values{}
	for _, field := range in.Body.Fields {
		value, err := resolveFieldValue(field)
		if err != nil {
			return "", "", err
		}
		form.Add(field.Name, value)
	}
	return form.Encode(), contentTypeForm, nil
}

// sniffContentType labels a raw stdin body so that the form default applied
// to generator data does not mislabel it.
func sniffContentType(data []byte) string {
	if json.Valid(data) {
		return contentTypeJSON
	}
	return http.DetectContentType(data)
}

func resolveFieldValue(field Field) (string, error) {
	if !field.IsFile {
		return field.Value, nil
	}
	data, err := ioutil.ReadFile(field.Value)
	if err != nil {
		return "", errors.Wrapf(err, "reading field value of '%s'", field.Name)
	}
	return string(data), nil
}
