package generator

import (
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadOptions reads a YAML mapping from path.
func LoadOptions(path string) (Options, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading options file '%s'", path)
	}
	return ParseOptions(data)
}

func ParseOptions(data []byte) (Options, error) {
	options := Options{}
	if err := yaml.Unmarshal(data, &options); err != nil {
		return nil, errors.Wrap(err, "parsing options as YAML mapping")
	}
	return options, nil
}

// ParseOptionPairs parses "key=value" strings. Values stay strings.
func ParseOptionPairs(pairs []string) (Options, error) {
	options := Options{}
	for _, pair := range pairs {
		i := strings.Index(pair, "=")
		if i <= 0 {
			return nil, errors.Errorf("option must be in the form key=value: %s", pair)
		}
		options[pair[:i]] = pair[i+1:]
	}
	return options, nil
}

// Merge returns a new mapping holding o overlaid with other.
func (o Options) Merge(other Options) Options {
	merged := make(Options, len(o)+len(other))
	for k, v := range o {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}
