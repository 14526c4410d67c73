package vardata

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrNotFound is returned when an operation requires a variable that is not in the store.
var ErrNotFound = errors.New("vardata: variable not found")

// Flags holds the named attributes of a variable.
//
// Flag names are opaque to the store; see the Flag* constants for the names the
// override resolver and the shell serializer interpret.
type Flags map[string]string

// Recognized flag names.
const (
	FlagExport  = "export"
	FlagFunc    = "func"
	FlagPython  = "python"
	FlagInherit = "inherit"
)

// Bool reports whether the flag is set to a true value (non-empty and not "0").
func (f Flags) Bool(name string) bool {
	return IsTrue(f[name])
}

// IsTrue reports whether a flag value counts as set.
func IsTrue(value string) bool {
	return value != "" && value != "0"
}

type variable struct {
	content    string
	hasContent bool
	flags      Flags
}

// Store maps variable names to content and flags.
//
// The zero value is not usable; create stores with [New]. Names are kept in
// the order they were first created, which is the order [Store.Keys] returns.
// A Store is not safe for concurrent use.
type Store struct {
	vars  map[string]*variable
	order []string
}

// New returns an empty store.
func New() *Store {
	return &Store{vars: make(map[string]*variable)}
}

// InitVar ensures name exists with a (possibly empty) flag set. Existing
// content and flags are left untouched.
func (s *Store) InitVar(name string) {
	s.initVar(name)
}

func (s *Store) initVar(name string) *variable {
	v, ok := s.vars[name]
	if !ok {
		v = &variable{}
		s.vars[name] = v
		s.order = append(s.order, name)
	}
	if v.flags == nil {
		v.flags = Flags{}
	}

	return v
}

// SetVar sets the content of name, creating the variable if needed.
func (s *Store) SetVar(name, value string) {
	v := s.initVar(name)
	v.content = value
	v.hasContent = true
}

// GetVar returns the content of name. The second result is false when the
// variable does not exist or has never been given content.
func (s *Store) GetVar(name string) (string, bool) {
	v, ok := s.vars[name]
	if !ok || !v.hasContent {
		return "", false
	}

	return v.content, true
}

// DelVar removes name together with its flags.
//
// Unlike lookups, deleting an absent variable is an error wrapping [ErrNotFound].
func (s *Store) DelVar(name string) error {
	if _, ok := s.vars[name]; !ok {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	delete(s.vars, name)
	if i := slices.Index(s.order, name); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}

	return nil
}

// SetFlag sets a single flag, creating the variable if needed.
func (s *Store) SetFlag(name, flag, value string) {
	s.initVar(name).flags[flag] = value
}

// GetFlag returns a single flag value.
func (s *Store) GetFlag(name, flag string) (string, bool) {
	v, ok := s.vars[name]
	if !ok {
		return "", false
	}
	value, ok := v.flags[flag]

	return value, ok
}

// SetFlags replaces the whole flag set of name with a copy of flags.
func (s *Store) SetFlags(name string, flags Flags) {
	v := s.initVar(name)
	v.flags = maps.Clone(flags)
	if v.flags == nil {
		v.flags = Flags{}
	}
}

// GetFlags returns a copy of the flag set of name.
func (s *Store) GetFlags(name string) (Flags, bool) {
	v, ok := s.vars[name]
	if !ok {
		return nil, false
	}

	return maps.Clone(v.flags), true
}

// Has reports whether name exists, with or without content.
func (s *Store) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Len returns the number of variables.
func (s *Store) Len() int {
	return len(s.vars)
}

// Keys returns a snapshot of all variable names in creation order.
func (s *Store) Keys() []string {
	return slices.Clone(s.order)
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	out := New()
	out.copyFrom(s)

	return out
}

// Replace clears s and loads a copy of every variable of src into it.
//
// This is a real clear-and-load: after it returns, every holder of s observes
// the new contents.
func (s *Store) Replace(src *Store) {
	if src == s {
		return
	}
	s.vars = make(map[string]*variable, src.Len())
	s.order = nil
	s.copyFrom(src)
}

func (s *Store) copyFrom(src *Store) {
	for _, name := range src.order {
		v := src.vars[name]
		s.vars[name] = &variable{
			content:    v.content,
			hasContent: v.hasContent,
			flags:      maps.Clone(v.flags),
		}
		s.order = append(s.order, name)
	}
}
