package team

import (
	"errors"
	"testing"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestExpandWorkingDir(t *testing.T) {
	env := mapLookup(map[string]string{"REPO_ROOT": "/src/repo", "EMPTY": ""})
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"$REPO_ROOT/svc", "/src/repo/svc"},
		{"${REPO_ROOT}/svc", "/src/repo/svc"},
		{"/x$EMPTY/y", "/x/y"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ExpandWorkingDir(tt.raw, env)
			if err != nil {
				t.Fatalf("ExpandWorkingDir: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandWorkingDir_Unresolved(t *testing.T) {
	_, err := ExpandWorkingDir("$HOME_X/${PROJ}/$HOME_X", mapLookup(nil))
	var uv *UnresolvedVariableError
	if !errors.As(err, &uv) {
		t.Fatalf("expected UnresolvedVariableError, got %v", err)
	}
	if uv.Name() != "HOME_X" {
		t.Errorf("Name() = %q, want HOME_X", uv.Name())
	}
	if len(uv.Names) != 2 || uv.Names[1] != "PROJ" {
		t.Errorf("Names = %v, want [HOME_X PROJ]", uv.Names)
	}
}

func TestEnvLookup_Fallback(t *testing.T) {
	t.Setenv("TEAMCTL_TEST_SET", "from-env")
	lookup := EnvLookup(map[string]string{"TEAMCTL_TEST_SET": "fallback", "TEAMCTL_TEST_FB": "fb"})

	if v, _ := lookup("TEAMCTL_TEST_SET"); v != "from-env" {
		t.Errorf("env value = %q, want from-env", v)
	}
	if v, ok := lookup("TEAMCTL_TEST_FB"); !ok || v != "fb" {
		t.Errorf("fallback = %q, %v", v, ok)
	}
	if _, ok := lookup("TEAMCTL_TEST_NONE"); ok {
		t.Error("unset variable should not resolve")
	}
}
