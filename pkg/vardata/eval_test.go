package vardata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251207-go-pkg-oevars/pkg/vardata"
)

func TestExprEvaluator(t *testing.T) {
	s := newTestStore(map[string]string{"ARCH": "arm", "N": "4"})
	s.SetFlag("ARCH", vardata.FlagExport, "1")

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "getVar", text: `${@ getVar("ARCH") + "-linux"}`, want: "arm-linux"},
		{name: "bound store", text: `${@ d.GetVar("ARCH")}`, want: "arm"},
		{name: "getFlag", text: `${@ getFlag("ARCH", "export")}`, want: "1"},
		{name: "absent with fallback", text: `${@ getVar("NOPE") ?? "none"}`, want: "none"},
		{name: "int times string", text: `${@ 2*"ab"}`, want: "abab"},
		{name: "negative repetition", text: `${@ "ab"*-1}`, want: ""},
		{name: "oct", text: "${@ oct(8)}", want: "0o10"},
		{name: "negative hex", text: "${@ hex(-255)}", want: "-0xff"},
		{name: "str", text: "${@ str(1.5)}", want: "1.5"},
		{name: "interpolated number", text: "${@ ${N} * 2}", want: "8"},
		{name: "ternary", text: `${@ getVar("ARCH") == "arm" ? "thumb" : "none"}`, want: "thumb"},
	}

	e := vardata.NewExpander(vardata.WithEvaluator(vardata.NewExprEvaluator()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Expand(tt.text, s)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExprEvaluator_CachesPrograms(t *testing.T) {
	ev := vardata.NewExprEvaluator()

	a := newTestStore(map[string]string{"X": "first"})
	b := newTestStore(map[string]string{"X": "second"})

	got, err := ev.Evaluate(`getVar("X")`, a)
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = ev.Evaluate(`getVar("X")`, b)
	require.NoError(t, err)
	assert.Equal(t, "second", got, "a cached program must read the store it is run with")
}

func TestHCLEvaluator(t *testing.T) {
	s := newTestStore(map[string]string{"ARCH": "arm", "START": "4096"})
	s.SetFlag("ARCH", vardata.FlagInherit, "5")

	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "getvar", text: `${@ upper(getvar("ARCH"))}`, want: "ARM"},
		{name: "getflag", text: `${@ getflag("ARCH", "inherit")}`, want: "5"},
		{name: "absent", text: `${@ getvar("NOPE") == null ? "none" : "some"}`, want: "none"},
		{name: "arithmetic", text: "${@ 2 + 3}", want: "5"},
		{name: "fraction", text: "${@ 1 / 4}", want: "0.25"},
		{name: "hex", text: "${@ hex(${START} * 2)}", want: "0x2000"},
		{name: "format", text: `${@ format("%s-%s", "arm", "linux")}`, want: "arm-linux"},
		{name: "join", text: `${@ join(":", ["a", "b"])}`, want: "a:b"},
		{name: "bool", text: "${@ 1 < 2}", want: "true"},
		{name: "syntax error", text: "${@ 1 +}", wantErr: true},
		{name: "unknown function", text: "${@ nope(1)}", wantErr: true},
		{name: "list result", text: `${@ ["a"]}`, wantErr: true},
	}

	e := vardata.NewExpander(vardata.WithEvaluator(vardata.NewHCLEvaluator()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Expand(tt.text, s)
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
