package startup

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Environment is the complete environment handed to the backend.
type Environment struct {
	Vars map[string]string
	// CredentialConfigured is derived from the final credential value only.
	CredentialConfigured bool
}

// Lookup returns the final value of key.
func (e Environment) Lookup(key string) (string, bool) {
	v, ok := e.Vars[key]
	return v, ok
}

// List returns the variables as sorted KEY=VALUE strings, the form
// exec.Cmd.Env expects.
func (e Environment) List() []string {
	out := make([]string, 0, len(e.Vars))
	for k, v := range e.Vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// BuildEnvironment layers the inherited environment, then defaults, then
// overrides. An override present with an empty value replaces the default;
// an absent one leaves it alone.
func BuildEnvironment(base []string, defaults, overrides map[string]string, credentialKey, placeholder string) Environment {
	vars := make(map[string]string, len(base)+len(defaults)+len(overrides))
	for _, kv := range base {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}
	for k, v := range defaults {
		vars[k] = v
	}
	for k, v := range overrides {
		vars[k] = v
	}

	env := Environment{Vars: vars}
	if credentialKey != "" {
		v := vars[credentialKey]
		env.CredentialConfigured = v != "" && v != placeholder
	}
	return env
}

// ResolveStorageRoot picks the backend data directory:
//
//  1. a non-blank override of storageKey
//  2. <workDir>/../storage when workDir holds the project marker (a checkout)
//  3. <appDataDir>/storage
//  4. <workDir>/storage
func ResolveStorageRoot(overrides map[string]string, storageKey, workDir, marker, appDataDir string) string {
	if v := strings.TrimSpace(overrides[storageKey]); v != "" {
		return v
	}
	if marker != "" {
		if _, err := os.Stat(filepath.Join(workDir, marker)); err == nil {
			return filepath.Join(filepath.Dir(workDir), "storage")
		}
	}
	if appDataDir != "" {
		return filepath.Join(appDataDir, "storage")
	}
	return filepath.Join(workDir, "storage")
}
