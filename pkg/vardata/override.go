package vardata

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// OverridesVar names the variable that lists the active override tags,
// separated by ":" and in ascending priority.
const OverridesVar = "OVERRIDES"

// Helper suffixes understood by [Resolver.Resolve].
const (
	SuffixAppend  = "append"
	SuffixPrepend = "prepend"
	SuffixDelete  = "delete"
)

// Resolver applies override tags and append/prepend/delete helpers to the
// base variables of a store.
type Resolver struct {
	expander        *Expander
	logger          *slog.Logger
	environ         []string
	environSet      bool
	inheritPriority string
}

// NewResolver returns a Resolver configured by opts. The expansion options
// apply to the expansion of OVERRIDES.
func NewResolver(opts ...Option) *Resolver {
	o := newOptions(opts)

	return &Resolver{
		expander:        newExpander(o),
		logger:          o.logger,
		environ:         o.environ,
		environSet:      o.environSet,
		inheritPriority: o.inheritPriority,
	}
}

// Resolve rewrites every base variable S of s:
//
//  1. for each tag O of OVERRIDES in order, S_O replaces S (the last tag wins)
//  2. S_append is appended to S
//  3. S_prepend is prepended to S
//  4. every line of S containing the pattern in S_delete is dropped
//
// Helpers only take part when their content is non-empty. Consumed helpers
// are deleted afterwards. Finally, variables whose inherit flag equals the
// inherit priority are taken from the environment.
//
// An absent or empty OVERRIDES makes Resolve a no-op.
func (r *Resolver) Resolve(s *Store) error {
	r.logger.Debug("resolving overrides")

	raw, ok := s.GetVar(OverridesVar)
	if !ok {
		r.logger.Debug("OVERRIDES not defined, nothing to do")

		return nil
	}
	overrides, err := r.expander.Expand(raw, s)
	if err != nil {
		return fmt.Errorf("vardata: expand %s: %w", OverridesVar, err)
	}
	if overrides == "" {
		r.logger.Debug("OVERRIDES not defined, nothing to do")

		return nil
	}
	tags := strings.Split(overrides, ":")

	consumed := newNameSet()
	for _, name := range s.Keys() {
		applyTags(s, name, tags, consumed)
		applyAppend(s, name, consumed)
		applyPrepend(s, name, consumed)
		applyDelete(s, name, consumed)
	}

	for _, name := range consumed.names {
		if err := s.DelVar(name); err != nil {
			return fmt.Errorf("vardata: remove override helper: %w", err)
		}
	}
	r.logger.Debug("overrides applied", "tags", tags, "consumed", len(consumed.names))

	environ := r.environ
	if !r.environSet {
		environ = os.Environ()
	}
	if n := InheritFromEnv(s, EnvironMap(environ), r.inheritPriority); n > 0 {
		r.logger.Debug("inherited from environment", "priority", r.inheritPriority, "count", n)
	}

	return nil
}

func applyTags(s *Store, name string, tags []string, consumed *nameSet) {
	for _, tag := range tags {
		helper := name + "_" + tag
		if value, ok := s.GetVar(helper); ok && value != "" {
			s.SetVar(name, value)
			consumed.add(helper)
		}
	}
}

func applyAppend(s *Store, name string, consumed *nameSet) {
	helper := name + "_" + SuffixAppend
	if value, ok := s.GetVar(helper); ok && value != "" {
		base, _ := s.GetVar(name)
		s.SetVar(name, base+value)
		consumed.add(helper)
	}
}

func applyPrepend(s *Store, name string, consumed *nameSet) {
	helper := name + "_" + SuffixPrepend
	if value, ok := s.GetVar(helper); ok && value != "" {
		base, _ := s.GetVar(name)
		s.SetVar(name, value+base)
		consumed.add(helper)
	}
}

func applyDelete(s *Store, name string, consumed *nameSet) {
	helper := name + "_" + SuffixDelete
	value, ok := s.GetVar(helper)
	if !ok || value == "" {
		return
	}
	base, ok := s.GetVar(name)
	if !ok || base == "" {
		return
	}

	s.SetVar(name, deleteLines(base, deletePattern(value)))
	consumed.add(helper)
}

func deletePattern(value string) string {
	return strings.TrimSpace(strings.ReplaceAll(value, "\n", ""))
}

// deleteLines drops the lines of text that contain pattern. Every kept line
// is emitted with a leading newline, so a non-empty result starts with "\n".
func deleteLines(text, pattern string) string {
	var buf strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, pattern) {
			continue
		}
		buf.WriteByte('\n')
		buf.WriteString(line)
	}

	return buf.String()
}

// nameSet keeps names in first-added order without duplicates.
type nameSet struct {
	seen  map[string]struct{}
	names []string
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]struct{})}
}

func (n *nameSet) add(name string) {
	if _, ok := n.seen[name]; ok {
		return
	}
	n.seen[name] = struct{}{}
	n.names = append(n.names, name)
}
