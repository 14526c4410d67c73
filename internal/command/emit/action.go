package emit

import (
	"context"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-oevars/internal/command"
	"github.com/lwmacct/251207-go-pkg-oevars/pkg/shellenv"
	"github.com/lwmacct/251207-go-pkg-oevars/pkg/vardata"
)

func action(_ context.Context, cmd *cli.Command) error {
	cfg, err := command.Setup(cmd)
	if err != nil {
		return err
	}
	opts, err := command.Options(cfg)
	if err != nil {
		return err
	}
	s, err := command.LoadStore(cfg, cmd.Root().Reader)
	if err != nil {
		return err
	}

	return run(cmd.Root().Writer, s, opts, cmd.StringSlice("var"))
}

// run resolves s and writes it. With names, only those variables are written,
// without the PATH rewrite done for a full environment.
func run(w io.Writer, s *vardata.Store, opts []vardata.Option, names []string) error {
	if err := vardata.NewResolver(opts...).Resolve(s); err != nil {
		return err
	}

	e := vardata.NewExpander(opts...)
	if len(names) == 0 {
		return shellenv.EmitEnv(w, s, e)
	}

	for _, name := range names {
		written, err := shellenv.EmitVar(w, name, s, e)
		if err != nil {
			return err
		}
		if !written {
			slog.Warn("Variable not emitted", "name", name)
		}
	}

	return nil
}
