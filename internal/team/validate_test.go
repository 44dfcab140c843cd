package team

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   *Config
		kinds []ErrorKind
	}{
		{
			name: "valid",
			cfg:  &Config{Name: "t", LeadAgent: "a", Members: []Member{{ID: "a"}, {ID: "b"}}},
		},
		{
			name:  "lead not a member",
			cfg:   &Config{Name: "t", LeadAgent: "z", Members: []Member{{ID: "a"}}},
			kinds: []ErrorKind{KindInvalidLead},
		},
		{
			name:  "duplicate ids",
			cfg:   &Config{Name: "t", LeadAgent: "a", Members: []Member{{ID: "a"}, {ID: "a"}, {ID: "a"}}},
			kinds: []ErrorKind{KindDuplicateMember},
		},
		{
			name:  "everything missing",
			cfg:   &Config{},
			kinds: []ErrorKind{KindMissingField, KindMissingField, KindMissingField},
		},
		{
			name:  "path in name",
			cfg:   &Config{Name: "../etc", LeadAgent: "a", Members: []Member{{ID: "a"}}},
			kinds: []ErrorKind{KindInvalidName},
		},
		{
			name:  "duplicate and bad lead together",
			cfg:   &Config{Name: "t", LeadAgent: "z", Members: []Member{{ID: "a"}, {ID: "a"}}},
			kinds: []ErrorKind{KindDuplicateMember, KindInvalidLead},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.cfg)
			if len(errs) != len(tt.kinds) {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, len(tt.kinds))
			}
			for i, k := range tt.kinds {
				if errs[i].Kind != k {
					t.Errorf("error %d kind = %s, want %s", i, errs[i].Kind, k)
				}
			}
		})
	}
}

// A config that validates always has its lead among its members.
func TestValidate_LeadMembership(t *testing.T) {
	members := []Member{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	for _, lead := range []string{"a", "b", "c", "d", "A", ""} {
		cfg := &Config{Name: "t", LeadAgent: lead, Members: members}
		_, isMember := cfg.Member(lead)
		if valid := len(Validate(cfg)) == 0; valid != isMember {
			t.Errorf("lead %q: valid = %v, member = %v", lead, valid, isMember)
		}
	}
}

func TestConfigError_Message(t *testing.T) {
	e := InvalidLead("EMP_9")
	e.Line = 3
	want := `line 3: lead agent "EMP_9" is not in the members list`
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}
