package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/vbonduro/sitelog/internal/report"
)

var projectFlag = &cli.StringFlag{
	Name:     "project",
	Aliases:  []string{"p"},
	Usage:    "Project id",
	Required: true,
}

var rangeFlags = []cli.Flag{
	projectFlag,
	&cli.StringFlag{Name: "from", Usage: "First day, YYYY-MM-DD (default a week ago)"},
	&cli.StringFlag{Name: "to", Usage: "Last day, YYYY-MM-DD (default today)"},
	&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of text"},
}

var projectsCommand = &cli.Command{
	Name:  "projects",
	Usage: "List projects, most recently updated first",
	Action: withApp(func(c *cli.Context, a *app) error {
		tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tUPDATED")
		for _, p := range a.service.ListProjects() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Address, humanize.Time(p.UpdatedAt))
		}
		return tw.Flush()
	}),
}

var reportCommand = &cli.Command{
	Name:  "report",
	Usage: "Print a project report",
	Subcommands: []*cli.Command{
		{
			Name:  "job",
			Usage: "Diary, open tasks, variations, deliveries and inspections for a period",
			Flags: rangeFlags,
			Action: withApp(func(c *cli.Context, a *app) error {
				rep, err := a.service.JobReport(c.String("project"), c.String("from"), c.String("to"))
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return printJSON(c, rep)
				}
				return report.WriteJobReportText(c.App.Writer, rep)
			}),
		},
		{
			Name:  "invoice",
			Usage: "Billable totals for a period, ready to paste into an invoice",
			Flags: rangeFlags,
			Action: withApp(func(c *cli.Context, a *app) error {
				x, err := a.service.BillableExport(c.String("project"), c.String("from"), c.String("to"))
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return printJSON(c, x)
				}
				_, err = fmt.Fprintln(c.App.Writer, x.Text())
				return err
			}),
		},
	},
}

var upcomingCommand = &cli.Command{
	Name:  "upcoming",
	Usage: "Tasks due, deliveries and inspections coming up",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "days", Usage: "Look-ahead window in days", Value: report.DefaultUpcomingDays},
		&cli.IntFlag{Name: "limit", Usage: "Maximum items", Value: report.DefaultUpcomingLimit},
	},
	Action: withApp(func(c *cli.Context, a *app) error {
		items := a.service.Upcoming(c.Int("days"), c.Int("limit"))
		if len(items) == 0 {
			_, err := fmt.Fprintln(c.App.Writer, "Nothing coming up.")
			return err
		}
		tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "WHEN\tKIND\tTITLE\tPROJECT\tSTATUS")
		for _, it := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.When, it.Kind, it.Title, it.Project, it.Badge)
		}
		return tw.Flush()
	}),
}

var cccCommand = &cli.Command{
	Name:  "ccc",
	Usage: "Code compliance inspection stages for a project",
	Flags: []cli.Flag{projectFlag},
	Action: withApp(func(c *cli.Context, a *app) error {
		stages, err := a.service.CCC(c.String("project"))
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
		for _, st := range stages {
			fmt.Fprintf(tw, "%s\t%s\n", st.Stage, st.State)
		}
		return tw.Flush()
	}),
}

var geocodeCommand = &cli.Command{
	Name:  "geocode",
	Usage: "Look up a project's address and store its coordinates",
	Flags: []cli.Flag{projectFlag},
	Action: withApp(func(c *cli.Context, a *app) error {
		out, err := a.service.GeocodeProject(c.Context, c.String("project"))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(c.App.Writer, out.Message); err != nil {
			return err
		}
		if links, ok, err := a.service.MapLinks(out.Project.ID); err == nil && ok {
			fmt.Fprintln(c.App.Writer, "Map:", links.OSM)
		}
		return nil
	}),
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
