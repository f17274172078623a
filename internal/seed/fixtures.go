// Package seed creates demo and test data. Fixtures come either from a YAML
// file or from the gofakeit Factory, and are applied through the services so
// stored rows pass the same validation as user input.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixtures is a declarative data set. Posts and comments reference their
// authors by email.
type Fixtures struct {
	Users []UserFixture `yaml:"users"`
	Posts []PostFixture `yaml:"posts"`
}

type UserFixture struct {
	Email       string `yaml:"email"`
	DisplayName string `yaml:"display_name"`
	Password    string `yaml:"password"`
}

type PostFixture struct {
	Author   string           `yaml:"author"`
	Body     string           `yaml:"body"`
	LikedBy  []string         `yaml:"liked_by,omitempty"`
	Comments []CommentFixture `yaml:"comments,omitempty"`
}

type CommentFixture struct {
	Author string `yaml:"author"`
	Body   string `yaml:"body"`
}

// LoadFixtures reads a YAML fixture file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes YAML fixtures. Unknown keys are rejected.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &fx, nil
}

// Marshal renders the fixtures back to YAML, e.g. to save a generated set.
func (fx *Fixtures) Marshal() ([]byte, error) {
	return yaml.Marshal(fx)
}
