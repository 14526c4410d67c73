package vardata

import "fmt"

// ExpandAll replaces the content of every variable in target with its
// expansion against source. A nil source means target itself. Variables
// without content are skipped.
//
// Variables are visited in creation order; with target == source, later
// variables see the already expanded content of earlier ones.
func (e *Expander) ExpandAll(target *Store, source Getter) error {
	if source == nil {
		source = target
	}

	for _, name := range target.Keys() {
		value, ok := target.GetVar(name)
		if !ok {
			continue
		}
		expanded, err := e.Expand(value, source)
		if err != nil {
			return fmt.Errorf("expand %s: %w", name, err)
		}
		target.SetVar(name, expanded)
	}

	return nil
}
