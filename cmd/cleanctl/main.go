// Command cleanctl runs one-off maintenance tasks against the cleanops database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "cleanctl",
		Usage: "cleanops maintenance commands",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", Sources: cli.EnvVars("LOG_LEVEL")},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			seedAdminCommand(),
			checkDBCommand(),
			generateCommand(),
			maintenanceCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, "cleanctl:", err)
		os.Exit(1)
	}
}
