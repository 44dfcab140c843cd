package team

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/simonbystrom/teamctl/internal/frontmatter"
)

// Parse decodes a team file and returns an error listing every problem
// found. The returned error is a ConfigErrors.
func Parse(raw []byte) (*Config, error) {
	cfg, errs := Decode(raw)
	if len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

// Decode is the lenient form of Parse: it returns whatever could be read
// from the header together with all problems found. cfg is nil only when
// the header itself could not be located or parsed as YAML.
func Decode(raw []byte) (*Config, ConfigErrors) {
	header, body, ok := frontmatter.Split(string(raw))
	if !ok {
		return nil, ConfigErrors{malformedHeader("file must start with a --- delimited header")}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(header), &doc); err != nil {
		return nil, ConfigErrors{malformedHeader(err.Error())}
	}

	cfg := &Config{Body: body}
	d := decoder{cfg: cfg, lines: map[string]int{}, skip: map[string]bool{}}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch {
	case root.Kind == yaml.MappingNode:
		d.mapping(root)
	case root.Kind == yaml.DocumentNode, root.Kind == 0, isNull(root):
		// empty header; every required field is reported missing below
	default:
		e := TypeMismatch("header", "mapping")
		e.Line = root.Line + 1
		return nil, ConfigErrors{e}
	}

	// Header lines are offset by the opening delimiter.
	for _, e := range d.errs {
		if e.Line > 0 {
			e.Line++
		}
	}
	for k, v := range d.lines {
		d.lines[k] = v + 1
	}

	errs := append(d.errs, validate(cfg, d.skip, d.lines)...)
	return cfg, errs
}

type decoder struct {
	cfg   *Config
	errs  ConfigErrors
	lines map[string]int  // field -> header line, for error reporting
	skip  map[string]bool // fields already reported, not to be re-reported as missing
}

func (d *decoder) mismatch(field, expected string, n *yaml.Node) {
	e := TypeMismatch(field, expected)
	e.Line = n.Line
	e.Value = n.Value
	d.errs = append(d.errs, e)
	d.skip[field] = true
}

func (d *decoder) mapping(root *yaml.Node) {
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		d.lines[key.Value] = key.Line
		switch key.Value {
		case "name":
			d.cfg.Name = d.scalar("name", val)
		case "description":
			if isNull(val) {
				continue
			}
			if val.Kind != yaml.ScalarNode {
				d.mismatch("description", "string", val)
				continue
			}
			d.cfg.Description = val.Value
		case "lead_agent":
			d.cfg.LeadAgent = d.scalar("lead_agent", val)
		case "working_directory":
			d.cfg.WorkingDirectory = d.scalar("working_directory", val)
		case "enabled":
			if isNull(val) {
				continue
			}
			var b bool
			if val.Kind != yaml.ScalarNode || val.ShortTag() != "!!bool" || val.Decode(&b) != nil {
				d.mismatch("enabled", "boolean", val)
				continue
			}
			d.cfg.Enabled = &b
		case "members":
			d.members(val)
		}
	}
}

// scalar reads an identifier-like value. Integers are accepted and kept in
// their written form so ids such as 0001 survive.
func (d *decoder) scalar(field string, n *yaml.Node) string {
	if isNull(n) {
		return ""
	}
	v, ok := scalarString(n)
	if !ok {
		d.mismatch(field, "string", n)
		return ""
	}
	return v
}

func (d *decoder) members(n *yaml.Node) {
	if isNull(n) {
		return
	}
	if n.Kind != yaml.SequenceNode {
		d.mismatch("members", "list", n)
		return
	}
	for i, item := range n.Content {
		field := fmt.Sprintf("members[%d]", i)
		d.lines[field] = item.Line
		switch item.Kind {
		case yaml.ScalarNode:
			// Bare id, the oldest team file format.
			id, ok := scalarString(item)
			if !ok || id == "" {
				d.mismatch(field, "string or mapping", item)
				continue
			}
			d.cfg.Members = append(d.cfg.Members, Member{ID: id})
		case yaml.MappingNode:
			if m, ok := d.member(field, item); ok {
				d.cfg.Members = append(d.cfg.Members, m)
			}
		default:
			d.mismatch(field, "string or mapping", item)
		}
	}
}

func (d *decoder) member(field string, n *yaml.Node) (Member, bool) {
	var m Member
	var idNode *yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "employee_id", "agent":
			if idNode == nil || key.Value == "employee_id" {
				idNode = val
			}
		case "role":
			if isNull(val) {
				continue
			}
			if val.Kind != yaml.ScalarNode {
				d.mismatch(field+".role", "string", val)
				continue
			}
			m.Role = val.Value
		}
	}
	if idNode == nil || isNull(idNode) {
		e := MissingField(field + ".employee_id")
		e.Line = n.Line
		d.errs = append(d.errs, e)
		return m, false
	}
	id, ok := scalarString(idNode)
	if !ok || id == "" {
		d.mismatch(field+".employee_id", "string", idNode)
		return m, false
	}
	m.ID = id
	return m, true
}

func scalarString(n *yaml.Node) (string, bool) {
	if n.Kind != yaml.ScalarNode {
		return "", false
	}
	switch n.ShortTag() {
	case "!!str", "!!int":
		return n.Value, true
	}
	return "", false
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// header fixes the field order of serialized team files.
type header struct {
	Name             string         `yaml:"name"`
	Description      string         `yaml:"description,omitempty"`
	Enabled          *bool          `yaml:"enabled,omitempty"`
	LeadAgent        string         `yaml:"lead_agent"`
	WorkingDirectory string         `yaml:"working_directory,omitempty"`
	Members          []headerMember `yaml:"members"`
}

type headerMember struct {
	ID   string `yaml:"employee_id"`
	Role string `yaml:"role,omitempty"`
}

// Serialize renders cfg in the team file format. Parse(Serialize(c))
// yields a Config equal to c.
func Serialize(cfg *Config) ([]byte, error) {
	h := header{
		Name:             cfg.Name,
		Description:      cfg.Description,
		Enabled:          cfg.Enabled,
		LeadAgent:        cfg.LeadAgent,
		WorkingDirectory: cfg.WorkingDirectory,
		Members:          make([]headerMember, len(cfg.Members)),
	}
	for i, m := range cfg.Members {
		h.Members[i] = headerMember{ID: m.ID, Role: m.Role}
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatter.Delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(h); err != nil {
		return nil, fmt.Errorf("encode team header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode team header: %w", err)
	}
	buf.WriteString(frontmatter.Delimiter + "\n")
	buf.WriteString(cfg.Body)
	return buf.Bytes(), nil
}
