package command_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251207-go-pkg-oevars/internal/command"
	"github.com/lwmacct/251207-go-pkg-oevars/internal/config"
	"github.com/lwmacct/251207-go-pkg-oevars/pkg/vardata"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "info", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
		{level: "loud", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := command.NewLogger(tt.level, "text", &bytes.Buffer{})
			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tt.want))
			assert.False(t, logger.Enabled(ctx, tt.want-1))
		})
	}
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	command.NewLogger("info", "json", &buf).Info("hello", "name", "CC")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())
	assert.Contains(t, buf.String(), `"name":"CC"`)

	buf.Reset()
	command.NewLogger("info", "text", &buf).Info("hello", "name", "CC")
	assert.Contains(t, buf.String(), "name=CC")
}

func TestEvaluator(t *testing.T) {
	s := vardata.New()

	for _, name := range []string{config.EvaluatorExpr, config.EvaluatorHCL, ""} {
		t.Run("name "+name, func(t *testing.T) {
			ev, err := command.Evaluator(name)
			require.NoError(t, err)
			got, err := vardata.NewExpander(vardata.WithEvaluator(ev)).Expand("${@ 1 + 2}", s)
			require.NoError(t, err)
			assert.Equal(t, "3", got)
		})
	}

	t.Run("none", func(t *testing.T) {
		ev, err := command.Evaluator(config.EvaluatorNone)
		require.NoError(t, err)
		_, err = vardata.NewExpander(vardata.WithEvaluator(ev)).Expand("${@ 1 + 2}", s)
		require.ErrorIs(t, err, vardata.ErrEvalDisabled)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := command.Evaluator("python")
		require.Error(t, err)

		cfg := config.DefaultConfig()
		cfg.Expand.Evaluator = "python"
		_, err = command.Options(&cfg)
		require.Error(t, err)
	})
}

func TestOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Expand.MaxLength = 0
	cfg.Expand.MaxPasses = 3

	opts, err := command.Options(&cfg)
	require.NoError(t, err)

	s := vardata.New()
	s.SetVar("A", "${B}")
	s.SetVar("B", "${A}")
	got, err := vardata.NewExpander(opts...).Expand("${A}", s)
	require.NoError(t, err, "the pass bound stops the cycle")
	assert.Contains(t, []string{"${A}", "${B}"}, got)
}

func TestLoadStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("A: one\nOVERRIDES: local\n"), 0o600))

	tests := []struct {
		name      string
		data      string
		overrides string
		stdin     string
		want      map[string]string
	}{
		{name: "no file", want: map[string]string{}},
		{name: "file", data: path, want: map[string]string{"A": "one", "OVERRIDES": "local"}},
		{name: "overrides replaced", data: path, overrides: "arm:local", want: map[string]string{"A": "one", "OVERRIDES": "arm:local"}},
		{name: "stdin", data: command.StdinPath, stdin: "B: two\n", want: map[string]string{"B": "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Data = tt.data
			cfg.Overrides = tt.overrides

			s, err := command.LoadStore(&cfg, strings.NewReader(tt.stdin))
			require.NoError(t, err)
			require.Equal(t, len(tt.want), s.Len())
			for name, want := range tt.want {
				got, ok := s.GetVar(name)
				require.True(t, ok, name)
				assert.Equal(t, want, got, name)
			}
		})
	}
}

func TestLoadStore_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Data = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := command.LoadStore(&cfg, strings.NewReader(""))
	require.ErrorIs(t, err, os.ErrNotExist)

	cfg.Data = command.StdinPath
	_, err = command.LoadStore(&cfg, strings.NewReader("A: [unclosed"))
	require.Error(t, err)
}

func TestCommonFlags(t *testing.T) {
	first, second := command.CommonFlags(), command.CommonFlags()
	require.Len(t, second, len(first))
	for i := range first {
		assert.NotSame(t, first[i], second[i], "each call returns fresh flags")
	}
}
