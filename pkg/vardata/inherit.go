package vardata

import (
	"slices"
	"strings"
)

// EnvironMap turns KEY=VALUE pairs, as returned by os.Environ, into a map.
// Entries without "=" are ignored.
func EnvironMap(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if ok {
			vars[key] = value
		}
	}

	return vars
}

// InheritFromEnv copies env[NAME] into s for every NAME whose inherit flag
// equals priority, and returns how many variables were set.
//
// Variables are set in sorted name order.
func InheritFromEnv(s *Store, env map[string]string, priority string) int {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	slices.Sort(names)

	n := 0
	for _, name := range names {
		if inherit, ok := s.GetFlag(name, FlagInherit); ok && inherit == priority {
			s.SetVar(name, env[name])
			n++
		}
	}

	return n
}
