// Package expand provides the expand command.
package expand

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-oevars/internal/command"
)

// Command expands text and variables against a definition file.
var Command = &cli.Command{
	Name:      "expand",
	Usage:     "Expand text or variables against the loaded definitions",
	ArgsUsage: "[text...]",
	Action:    action,
	Flags: append(command.CommonFlags(),
		&cli.StringSliceFlag{
			Name:    "var",
			Aliases: []string{"v"},
			Usage:   "print NAME=<expanded content> for this variable (repeatable)",
		},
		&cli.BoolFlag{
			Name:    "resolve",
			Aliases: []string{"r"},
			Usage:   "apply OVERRIDES before expanding",
		},
	),
}
