package shellenv

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lwmacct/251207-go-pkg-oevars/pkg/vardata"
)

// Variables that shape the PATH written by [EmitEnv].
const (
	PathVar        = "PATH"
	SearchPathVar  = "OEPATH"
	BaseDirVar     = "OEDIR"
	StagingBinPath = "${STAGING_BINDIR}"
)

var quoteEscaper = strings.NewReplacer(`"`, `\"`)

// EmitVar writes name to w as a shell assignment or function. It reports
// whether anything was written.
//
// Variables flagged python, and variables without content, are skipped.
// Variables flagged func become "name() {\n<body>\n}". Everything else becomes
// name="value", with surrounding whitespace trimmed, double quotes escaped,
// and an "export " prefix when flagged export. Content is expanded first.
func EmitVar(w io.Writer, name string, s *vardata.Store, e *vardata.Expander) (bool, error) {
	flags, _ := s.GetFlags(name)
	if flags.Bool(vardata.FlagPython) {
		return false, nil
	}

	value, ok, err := e.ExpandVar(s, name)
	if err != nil {
		return false, fmt.Errorf("shellenv: %w", err)
	}
	if !ok {
		slog.Debug("variable has no content, not emitting", "name", name)

		return false, nil
	}

	if flags.Bool(vardata.FlagFunc) {
		_, err = fmt.Fprintf(w, "%s() {\n%s\n}\n", name, value)

		return err == nil, err
	}

	if flags.Bool(vardata.FlagExport) {
		if _, err := io.WriteString(w, "export "); err != nil {
			return false, err
		}
	}
	_, err = fmt.Fprintf(w, "%s=\"%s\"\n", name, quoteEscaper.Replace(strings.TrimSpace(value)))

	return err == nil, err
}

// EmitEnv writes the whole store so that a shell can source it.
//
// Before writing, PATH (when set) is prefixed with "<dir>/bin/build" for each
// directory of OEPATH (falling back to OEDIR, then "."), and with
// ${STAGING_BINDIR} in front of those; then every variable is expanded in
// place. Plain variables are written first and functions last, each followed
// by a blank line.
func EmitEnv(w io.Writer, s *vardata.Store, e *vardata.Expander) error {
	if err := prefixPath(s, e); err != nil {
		return err
	}
	if err := e.ExpandAll(s, nil); err != nil {
		return fmt.Errorf("shellenv: %w", err)
	}

	names := s.Keys()
	for _, funcs := range []bool{false, true} {
		for _, name := range names {
			flag, _ := s.GetFlag(name, vardata.FlagFunc)
			if vardata.IsTrue(flag) != funcs {
				continue
			}

			written, err := EmitVar(w, name, s, e)
			if err != nil {
				return err
			}
			if written {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func prefixPath(s *vardata.Store, e *vardata.Expander) error {
	path, _ := s.GetVar(PathVar)
	if path == "" {
		return nil
	}

	baseDir, ok := s.GetVar(BaseDirVar)
	if !ok {
		baseDir = "."
	}
	searchPath, ok, err := e.ExpandVar(s, SearchPathVar)
	if err != nil {
		return fmt.Errorf("shellenv: %w", err)
	}
	if !ok || searchPath == "" {
		searchPath = baseDir
	}

	entries := strings.Split(path, ":")
	for _, dir := range strings.Split(searchPath, ":") {
		entries = append([]string{joinDir(dir, "bin/build")}, entries...)
	}
	entries = append([]string{StagingBinPath}, entries...)

	expanded, err := e.Expand(strings.Join(entries, ":"), s)
	if err != nil {
		return fmt.Errorf("shellenv: expand %s: %w", PathVar, err)
	}
	s.SetVar(PathVar, expanded)

	return nil
}

// joinDir appends elem to dir with exactly one separator, keeping dir as
// written (no cleaning, so "." stays "./bin/build").
func joinDir(dir, elem string) string {
	switch {
	case dir == "":
		return elem
	case strings.HasSuffix(dir, "/"):
		return dir + elem
	default:
		return dir + "/" + elem
	}
}
