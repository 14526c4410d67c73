package expand

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-oevars/internal/command"
	"github.com/lwmacct/251207-go-pkg-oevars/pkg/vardata"
)

var errNothingToExpand = errors.New("nothing to expand: pass text arguments or --var")

type request struct {
	texts   []string
	names   []string
	resolve bool
}

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

	return run(cmd.Root().Writer, s, opts, request{
		texts:   cmd.Args().Slice(),
		names:   cmd.StringSlice("var"),
		resolve: cmd.Bool("resolve"),
	})
}

// run prints one line per text argument, then one NAME=value line per
// requested variable.
func run(w io.Writer, s *vardata.Store, opts []vardata.Option, req request) error {
	if len(req.texts) == 0 && len(req.names) == 0 {
		return errNothingToExpand
	}

	if req.resolve {
		if err := vardata.NewResolver(opts...).Resolve(s); err != nil {
			return err
		}
	}

	e := vardata.NewExpander(opts...)
	for _, text := range req.texts {
		out, err := e.Expand(text, s)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}

	for _, name := range req.names {
		value, ok, err := e.ExpandVar(s, name)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s: %w", name, vardata.ErrNotFound)
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", name, value); err != nil {
			return err
		}
	}

	return nil
}
