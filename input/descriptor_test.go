package input

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"os"
	"reflect"
	"testing"

	"github.com/nojima/httpbench-go/generator"
)

func makeTempFile(t *testing.T, content string) string {
	tmpfile, err := ioutil.TempFile("", "httpbench-go-test-")
	if err != nil {
		t.Fatalf("failed to create temporary file: %v", err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		os.Remove(tmpfile.Name())
		t.Fatalf("failed to write to temporary file: %v", err)
	}
	tmpfile.Close()
	return tmpfile.Name()
}

func isEquivalentJSON(t *testing.T, json1, json2 string) bool {
	var obj1, obj2 interface{}
	if err := json.Unmarshal([]byte(json1), &obj1); err != nil {
		t.Fatalf("failed to unmarshal json1: %v", err)
	}
	if err := json.Unmarshal([]byte(json2), &obj2); err != nil {
		t.Fatalf("failed to unmarshal json2: %v", err)
	}
	return reflect.DeepEqual(obj1, obj2)
}

func TestInput_Descriptor_FormBody(t *testing.T) {
	// Setup
	fileName := makeTempFile(t, "love & peace")
	defer os.Remove(fileName)
	in := &Input{
		Method: generator.MethodPost,
		URI:    mustURL("/foo/bar"),
		Body: Body{
			BodyType: FormBody,
			Fields: []Field{
				{Name: "foo", Value: "bar"},
				{Name: "from_file", Value: fileName, IsFile: true},
			},
		},
	}

	// Exercise
	d, err := in.Descriptor()
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	expected := generator.Descriptor{
		Method: generator.MethodPost,
		URI:    "/foo/bar",
		Data:   "foo=bar&from_file=love+%26+peace",
		Header: http.Header{"Content-Type": []string{"application/x-www-form-urlencoded; charset=utf-8"}},
	}
	if !reflect.DeepEqual(d, expected) {
		t.Errorf("unexpected descriptor: expected=%+v, actual=%+v", expected, d)
	}
}

func TestInput_Descriptor_JSONBody(t *testing.T) {
	// Setup
	fileName := makeTempFile(t, "test test")
	defer os.Remove(fileName)
	in := &Input{
		Method: generator.MethodPost,
		URI:    mustURL("/json"),
		Body: Body{
			BodyType: JSONBody,
			Fields: []Field{
				{Name: "foo", Value: "bar"},
				{Name: "from_file", Value: fileName, IsFile: true},
			},
			RawJSONFields: []Field{
				{Name: "boolean", Value: "true"},
				{Name: "array", Value: `[1, null, "hello"]`},
			},
		},
	}

	// Exercise
	d, err := in.Descriptor()
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	expectedBody := `{
		"foo": "bar",
		"from_file": "test test",
		"boolean": true,
		"array": [1, null, "hello"]
	}`
	if !isEquivalentJSON(t, expectedBody, d.Data) {
		t.Errorf("unexpected body: expected=%s, actual=%s", expectedBody, d.Data)
	}
	if ct := d.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type: %s", ct)
	}
}

func TestInput_Descriptor_ParametersAndHeader(t *testing.T) {
	// Setup
	in := &Input{
		Method: generator.MethodGet,
		URI:    mustURL("/search?hoge=fuga"),
		Parameters: []Field{
			{Name: "q", Value: "hello world"},
		},
		Header: Header{
			Fields: []Field{
				{Name: "X-Multi-Value", Value: "value 1"},
				{Name: "X-Multi-Value", Value: "value 2"},
			},
		},
	}

	// Exercise
	d, err := in.Descriptor()
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	expected := generator.Descriptor{
		Method: generator.MethodGet,
		URI:    "/search?hoge=fuga&q=hello+world",
		Header: http.Header{"X-Multi-Value": []string{"value 1", "value 2"}},
	}
	if !reflect.DeepEqual(d, expected) {
		t.Errorf("unexpected descriptor: expected=%+v, actual=%+v", expected, d)
	}
}

func TestInput_Descriptor_RawBodyKeepsExplicitContentType(t *testing.T) {
	in := &Input{
		Method: generator.MethodPut,
		URI:    mustURL("/raw"),
		Header: Header{
			Fields: []Field{{Name: "Content-Type", Value: "text/plain"}},
		},
		Body: Body{BodyType: RawBody, Raw: []byte("Hello, World!!")},
	}

	d, err := in.Descriptor()
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	if d.Data != "Hello, World!!" {
		t.Errorf("unexpected body: %s", d.Data)
	}
	if ct := d.Header.Get("Content-Type"); ct != "text/plain" {
		t.Errorf("unexpected content type: %s", ct)
	}
}

func TestInput_Descriptor_RawBodyContentType(t *testing.T) {
	testCases := []struct {
		title    string
		raw      string
		expected string
	}{
		{
			title:    "JSON from stdin",
			raw:      `{"hello": "world"}`,
			expected: "application/json",
		},
		{
			title:    "Plain text from stdin",
			raw:      "Hello, World!!",
			expected: "text/plain; charset=utf-8",
		},
		{
			title:    "Form-looking text is not labeled as a form",
			raw:      "foo=bar",
			expected: "text/plain; charset=utf-8",
		},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			// Setup
			in := &Input{
				Method: generator.MethodPost,
				URI:    mustURL("/raw"),
				Body:   Body{BodyType: RawBody, Raw: []byte(tt.raw)},
			}

			// Exercise
			d, err := in.Descriptor()
			if err != nil {
				t.Fatalf("unexpected error: err=%+v", err)
			}

			// Verify
			if d.Data != tt.raw {
				t.Errorf("unexpected body: expected=%s, actual=%s", tt.raw, d.Data)
			}
			if ct := d.Header.Get("Content-Type"); ct != tt.expected {
				t.Errorf("unexpected content type: expected=%s, actual=%s", tt.expected, ct)
			}
		})
	}
}

func TestInput_Descriptor_MissingFile(t *testing.T) {
	in := &Input{
		Method: generator.MethodPost,
		URI:    mustURL("/"),
		Body: Body{
			BodyType: FormBody,
			Fields:   []Field{{Name: "f", Value: "/nonexistent/httpbench-go", IsFile: true}},
		},
	}
	if _, err := in.Descriptor(); err == nil {
		t.Errorf("expected error for missing file")
	}
}
