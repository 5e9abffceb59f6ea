package dashboard

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Parse decodes a yaml (or json) document.
func Parse(data []byte) (*Config, error) {
	doc := &Config{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(err, "parsing dashboard")
	}
	doc.Normalize()
	return doc, nil
}

// Marshal encodes a document as yaml.
func Marshal(doc *Config) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encoding dashboard")
	}
	return data, nil
}
