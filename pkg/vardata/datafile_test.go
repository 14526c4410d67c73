package vardata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yamlv3 "go.yaml.in/yaml/v3"

	"github.com/lwmacct/251207-go-pkg-oevars/pkg/vardata"
)

const yamlDefinitions = `
OVERRIDES: arm
CC: gcc
CC_arm: arm-linux-gcc
JOBS: 4
do_compile:
  value: |
    ${CC} -o app main.c
  flags:
    func: 1
PATH:
  flags:
    inherit: 5
EMPTY: ~
`

const jsoncDefinitions = `{
  // active tags
  "OVERRIDES": "arm",
  "CC": "gcc",
  "JOBS": 4,
  "do_compile": {
    "value": "${CC} -o app main.c\n",
    "flags": {"func": true}, /* trailing comma below */
  },
  "EMPTY": null,
}`

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		format   vardata.Format
		wantKeys []string
	}{
		{
			name:     "yaml",
			data:     yamlDefinitions,
			format:   vardata.FormatYAML,
			wantKeys: []string{"OVERRIDES", "CC", "CC_arm", "JOBS", "do_compile", "PATH", "EMPTY"},
		},
		{
			name:     "jsonc",
			data:     jsoncDefinitions,
			format:   vardata.FormatJSON,
			wantKeys: []string{"OVERRIDES", "CC", "JOBS", "do_compile", "EMPTY"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := vardata.Decode([]byte(tt.data), tt.format)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.wantKeys, s.Keys()); diff != "" {
				t.Errorf("key order mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, "4", getVar(t, s, "JOBS"))
			assert.Equal(t, "${CC} -o app main.c\n", getVar(t, s, "do_compile"))
			assert.True(t, mustFlags(t, s, "do_compile").Bool(vardata.FlagFunc))

			assert.True(t, s.Has("EMPTY"))
			_, ok := s.GetVar("EMPTY")
			assert.False(t, ok)
		})
	}
}

func TestDecode_FlagsOnly(t *testing.T) {
	s, err := vardata.Decode([]byte(yamlDefinitions), vardata.FormatYAML)
	require.NoError(t, err)

	_, ok := s.GetVar("PATH")
	assert.False(t, ok)
	inherit, _ := s.GetFlag("PATH", vardata.FlagInherit)
	assert.Equal(t, "5", inherit)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format vardata.Format
		errMsg string
	}{
		{name: "yaml list root", data: "- a\n- b\n", format: vardata.FormatYAML, errMsg: "root must be a mapping"},
		{name: "yaml list value", data: "A: [1, 2]\n", format: vardata.FormatYAML, errMsg: "A:"},
		{name: "unknown entry key", data: "A:\n  valu: x\n", format: vardata.FormatYAML, errMsg: "valu"},
		{name: "json array root", data: `["a"]`, format: vardata.FormatJSON, errMsg: "root must be an object"},
		{name: "json array value", data: `{"A": [1]}`, format: vardata.FormatJSON, errMsg: "A:"},
		{name: "unknown format", data: "", format: vardata.Format("toml"), errMsg: "unknown format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vardata.Decode([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	for _, format := range []vardata.Format{vardata.FormatYAML, vardata.FormatJSON} {
		s, err := vardata.Decode(nil, format)
		require.NoError(t, err)
		assert.Zero(t, s.Len())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "local.yaml")
	jsonPath := filepath.Join(dir, "local.jsonc")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlDefinitions), 0o600))
	require.NoError(t, os.WriteFile(jsonPath, []byte(jsoncDefinitions), 0o600))

	s, err := vardata.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "arm-linux-gcc", getVar(t, s, "CC_arm"))

	s, err = vardata.LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "gcc", getVar(t, s, "CC"))

	_, err = vardata.LoadFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_MarshalYAMLRoundTrip(t *testing.T) {
	s := vardata.New()
	s.SetVar("A", "plain")
	s.SetVar("B", "\nfirst\nsecond")
	s.SetVar("C", "123")
	s.SetFlag("C", vardata.FlagExport, "1")
	s.SetFlag("D", vardata.FlagInherit, "5")
	s.InitVar("E")

	out, err := yamlv3.Marshal(s)
	require.NoError(t, err)

	back, err := vardata.Decode(out, vardata.FormatYAML)
	require.NoError(t, err)

	if diff := cmp.Diff(s.Keys(), back.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s\n%s", diff, out)
	}
	for _, name := range s.Keys() {
		want, wantOK := s.GetVar(name)
		got, gotOK := back.GetVar(name)
		assert.Equal(t, wantOK, gotOK, name)
		assert.Equal(t, want, got, name)

		wantFlags, _ := s.GetFlags(name)
		gotFlags, _ := back.GetFlags(name)
		assert.Equal(t, wantFlags, gotFlags, name)
	}
}

func mustFlags(t *testing.T, s *vardata.Store, name string) vardata.Flags {
	t.Helper()
	flags, ok := s.GetFlags(name)
	require.True(t, ok, "%s should exist", name)

	return flags
}
