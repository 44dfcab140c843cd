package team

import "strings"

// Validate checks the structural rules every team must satisfy: required
// fields are present, member ids are unique and the lead is a member. All
// problems are returned, not just the first.
func Validate(cfg *Config) ConfigErrors {
	return validate(cfg, nil, nil)
}

func validate(cfg *Config, skip map[string]bool, lines map[string]int) ConfigErrors {
	var errs ConfigErrors
	add := func(e *ConfigError) {
		if e.Line == 0 && lines != nil {
			e.Line = lines[e.Field]
		}
		errs = append(errs, e)
	}

	if cfg.Name == "" {
		if !skip["name"] {
			add(MissingField("name"))
		}
	} else if !validName(cfg.Name) {
		add(&ConfigError{Kind: KindInvalidName, Field: "name", Value: cfg.Name})
	}

	if cfg.LeadAgent == "" && !skip["lead_agent"] {
		add(MissingField("lead_agent"))
	}

	if len(cfg.Members) == 0 {
		if !skip["members"] {
			e := MissingField("members")
			if _, present := lines["members"]; present {
				e.Detail = "at least one member is required"
			}
			add(e)
		}
		return errs
	}

	seen := make(map[string]bool, len(cfg.Members))
	reported := map[string]bool{}
	for _, m := range cfg.Members {
		if seen[m.ID] && !reported[m.ID] {
			add(DuplicateMember(m.ID))
			reported[m.ID] = true
		}
		seen[m.ID] = true
	}

	if cfg.LeadAgent != "" && !seen[cfg.LeadAgent] {
		add(InvalidLead(cfg.LeadAgent))
	}
	return errs
}

// validName reports whether name can be used as a team file stem.
func validName(name string) bool {
	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`+"\x00")
}
