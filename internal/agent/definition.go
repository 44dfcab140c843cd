package agent

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/simonbystrom/teamctl/internal/frontmatter"
)

// Definition describes one agent, read from <agents_dir>/<id>.md.
type Definition struct {
	ID               string `yaml:"id"`
	Name             string `yaml:"name"`
	Description      string `yaml:"description"`
	Launcher         string `yaml:"launcher"`
	WorkingDirectory string `yaml:"working_directory"`
	Enabled          *bool  `yaml:"enabled"`

	Stem string `yaml:"-"`
}

// DisplayName returns the human name, falling back to the id.
func (d *Definition) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

func (d *Definition) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// Matches reports whether id refers to this definition. Ids compare
// case-insensitively with '_' and '-' treated alike, against both the
// declared id and the file stem.
func (d *Definition) Matches(id string) bool {
	n := normalizeID(id)
	return n != "" && (n == normalizeID(d.ID) || n == normalizeID(d.Stem))
}

func normalizeID(id string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), "_", "-")
}

// ParseDefinition reads an agent file. The id defaults to the file stem.
func ParseDefinition(stem string, raw []byte) (*Definition, error) {
	header, _, ok := frontmatter.Split(string(raw))
	if !ok {
		return nil, fmt.Errorf("agent %s: missing --- delimited header", stem)
	}
	var d Definition
	if err := yaml.Unmarshal([]byte(header), &d); err != nil {
		return nil, fmt.Errorf("agent %s: %w", stem, err)
	}
	d.Stem = stem
	if d.ID == "" {
		d.ID = stem
	}
	return &d, nil
}
