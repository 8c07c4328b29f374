package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "sitelog:", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer) *cli.App {
	return &cli.App{
		Name:   "sitelog",
		Usage:  "Offline site diary, tasks and reports for a small building business",
		Writer: w,
		Commands: []*cli.Command{
			serveCommand,
			projectsCommand,
			reportCommand,
			upcomingCommand,
			cccCommand,
			geocodeCommand,
			attachCommand,
			exportCommand,
			importCommand,
			backupCommand,
			restoreCommand,
			backupsCommand,
			demoCommand,
			wipeCommand,
			idCommand,
		},
	}
}
