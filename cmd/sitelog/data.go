package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/vbonduro/sitelog/internal/attachment"
	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/service"
)

var attachCommand = &cli.Command{
	Name:      "attach",
	Usage:     "Attach image files to a record",
	ArgsUsage: "FILE...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "collection",
			Aliases:  []string{"c"},
			Usage:    "One of " + strings.Join(service.PhotoCollections, ", "),
			Required: true,
		},
		&cli.StringFlag{Name: "id", Usage: "Record id", Required: true},
	},
	Action: withApp(func(c *cli.Context, a *app) error {
		if c.NArg() == 0 {
			return fmt.Errorf("no files given")
		}
		files := make([]attachment.Source, 0, c.NArg())
		for _, path := range c.Args().Slice() {
			files = append(files, attachment.FromPath(path))
		}
		photos, err := a.service.AttachPhotos(c.Context, c.String("collection"), c.String("id"), files)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.App.Writer, "Attached %d of %d files.\n", len(photos), len(files))
		return err
	}),
}

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "Write all records and settings to a JSON file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Output path, - for stdout (default sitelog-export-<date>.json)",
		},
	},
	Action: withApp(func(c *cli.Context, a *app) error {
		path := c.String("out")
		if path == "-" {
			return a.service.WriteExport(c.App.Writer)
		}
		if path == "" {
			path = a.service.ExportFilename()
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		if err := a.service.WriteExport(f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.App.Writer, "Exported to", path)
		return err
	}),
}

var importCommand = &cli.Command{
	Name:      "import",
	Usage:     "Replace records and settings from an export file",
	ArgsUsage: "FILE",
	Action: withApp(func(c *cli.Context, a *app) error {
		if c.NArg() != 1 {
			return fmt.Errorf("expected one export file")
		}
		data, err := readInput(c.Args().First())
		if err != nil {
			return err
		}
		if err := a.service.Import(c.Context, data); err != nil {
			return err
		}
		return printCounts(c, a.service.Snapshot())
	}),
}

var backupCommand = &cli.Command{
	Name:  "backup",
	Usage: "Store an export in the configured backup location",
	Action: withApp(func(c *cli.Context, a *app) error {
		key, err := a.service.Backup(c.Context)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.App.Writer, "Backed up to", key)
		return err
	}),
}

var restoreCommand = &cli.Command{
	Name:  "restore",
	Usage: "Import a stored backup",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "key", Usage: "Backup key (default the latest)"},
	},
	Action: withApp(func(c *cli.Context, a *app) error {
		key, err := a.service.Restore(c.Context, c.String("key"))
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "Restored", key)
		return printCounts(c, a.service.Snapshot())
	}),
}

var backupsCommand = &cli.Command{
	Name:  "backups",
	Usage: "List stored backups",
	Action: withApp(func(c *cli.Context, a *app) error {
		infos, err := a.service.ListBackups(c.Context)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tSIZE\tTAKEN")
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Key, humanize.Bytes(uint64(info.Size)), humanize.Time(info.LastModified))
		}
		return tw.Flush()
	}),
}

var demoCommand = &cli.Command{
	Name:  "demo",
	Usage: "Add a sample project with one record of each kind",
	Action: withApp(func(c *cli.Context, a *app) error {
		id, err := a.service.LoadDemo(c.Context)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.App.Writer, "Demo project", id)
		return err
	}),
}

var wipeCommand = &cli.Command{
	Name:  "wipe",
	Usage: "Delete every record (settings are kept)",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Usage: "Confirm the wipe"},
	},
	Action: withApp(func(c *cli.Context, a *app) error {
		if !c.Bool("yes") {
			return fmt.Errorf("refusing to wipe without --yes")
		}
		if err := a.service.Wipe(c.Context); err != nil {
			return err
		}
		_, err := fmt.Fprintln(c.App.Writer, "All records deleted.")
		return err
	}),
}

var idCommand = &cli.Command{
	Name:  "id",
	Usage: "Generate record ids for hand-written import files",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of ids to generate",
			Value:   1,
		},
	},
	Action: func(c *cli.Context) error {
		for range c.Int("count") {
			fmt.Fprintln(c.App.Writer, domain.NewID())
		}
		return nil
	},
}

// readInput reads path, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func printCounts(c *cli.Context, st domain.State) error {
	counts := st.Counts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.Sort(names)
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%d\n", name, counts[name])
	}
	return tw.Flush()
}
