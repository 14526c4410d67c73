// Package emit provides the emit command.
package emit

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-oevars/internal/command"
)

// Command resolves the definitions and writes them as sourceable shell code.
var Command = &cli.Command{
	Name:   "emit",
	Usage:  "Resolve the definitions and print them as shell code",
	Action: action,
	Flags: append(command.CommonFlags(),
		&cli.StringSliceFlag{
			Name:    "var",
			Aliases: []string{"v"},
			Usage:   "only emit this variable (repeatable)",
		},
	),
}
