package resolve

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	yamlv3 "go.yaml.in/yaml/v3"

	"github.com/lwmacct/251207-go-pkg-oevars/internal/command"
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

	return run(cmd.Root().Writer, s, opts, cmd.Bool("expand"))
}

func run(w io.Writer, s *vardata.Store, opts []vardata.Option, expand bool) error {
	if err := vardata.NewResolver(opts...).Resolve(s); err != nil {
		return err
	}
	if expand {
		if err := vardata.NewExpander(opts...).ExpandAll(s, nil); err != nil {
			return err
		}
	}

	enc := yamlv3.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	return enc.Close()
}
