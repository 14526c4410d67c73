package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-oevars/internal/command/emit"
	"github.com/lwmacct/251207-go-pkg-oevars/internal/command/expand"
	"github.com/lwmacct/251207-go-pkg-oevars/internal/command/resolve"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "oevars",
		Usage:   "Expand and resolve build metadata variables",
		Version: version,
		Commands: []*cli.Command{
			expand.Command,
			resolve.Command,
			emit.Command,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
