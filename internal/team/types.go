package team

// Member is a single entry of a team's member list.
type Member struct {
	ID   string // opaque agent identifier, e.g. EMP_0001
	Role string // free text; empty is displayed as "member"
}

// DisplayRole returns the member's role, defaulting to "member".
func (m Member) DisplayRole() string {
	if m.Role == "" {
		return "member"
	}
	return m.Role
}

// Config is the parsed form of a team file: a YAML header and a free-form
// markdown body.
type Config struct {
	Name             string
	Description      string
	Enabled          *bool // nil means enabled
	LeadAgent        string
	Members          []Member
	WorkingDirectory string // may contain $VAR placeholders

	// Body is everything after the header, byte for byte. It is never
	// interpreted.
	Body string
}

// IsEnabled reports whether the team accepts work.
func (c *Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// MemberIDs returns the member ids in declared order.
func (c *Config) MemberIDs() []string {
	ids := make([]string, len(c.Members))
	for i, m := range c.Members {
		ids[i] = m.ID
	}
	return ids
}

// Member returns the member with the given id.
func (c *Config) Member(id string) (Member, bool) {
	for _, m := range c.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// IsLead reports whether id is the team's lead.
func (c *Config) IsLead(id string) bool {
	return id != "" && id == c.LeadAgent
}
