// Package resolve provides the resolve command.
package resolve

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-oevars/internal/command"
)

// Command applies OVERRIDES and dumps the resulting definitions as YAML.
var Command = &cli.Command{
	Name:   "resolve",
	Usage:  "Apply OVERRIDES and print the resolved definitions as YAML",
	Action: action,
	Flags: append(command.CommonFlags(),
		&cli.BoolFlag{
			Name:    "expand",
			Aliases: []string{"e"},
			Usage:   "also expand every variable in place",
		},
	),
}
