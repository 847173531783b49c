package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/client"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/inbox"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/reports"
	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	app := cli.NewApp()
	app.Name = "modctl"
	app.Usage = "work the moderation inbox from a terminal"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "api",
			Value:   "http://localhost:8080",
			EnvVars: []string{"MODCTL_API"},
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "operator access token",
			EnvVars: []string{"MODCTL_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "admin-token",
			Usage:   "shared admin token, used instead of --token",
			EnvVars: []string{"MODCTL_ADMIN_TOKEN"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: 10 * time.Second,
		},
	}
	app.Commands = []*cli.Command{
		inboxCmd,
		resolveCmd,
		creatorCmd,
	}

	app.RunAndExitOnError()
}

func apiClient(cctx *cli.Context) *client.Client {
	c := client.New(cctx.String("api"), cctx.String("token"))
	c.AdminToken = cctx.String("admin-token")
	return c
}

func loadInbox(cctx *cli.Context, c *client.Client, q inbox.Query) inbox.View {
	ib := inbox.New(reports.Sources(c), inbox.Config{SourceTimeout: cctx.Duration("timeout")})
	return ib.Query(cctx.Context, q)
}

var inboxCmd = &cli.Command{
	Name:  "inbox",
	Usage: "list reports from every source, newest first",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "status", Value: string(reports.DefaultStatusFilter)},
		&cli.StringFlag{Name: "q", Usage: "match title, reporter or reason"},
		&cli.StringFlag{Name: "type", Value: string(reports.TypeFilterAll)},
		&cli.BoolFlag{Name: "json"},
	},
	Action: func(cctx *cli.Context) error {
		status, err := reports.ParseStatusFilter(cctx.String("status"))
		if err != nil {
			return err
		}
		typeFilter, err := reports.ParseTypeFilter(cctx.String("type"))
		if err != nil {
			return err
		}

		view := loadInbox(cctx, apiClient(cctx), inbox.Query{Status: status, Text: cctx.String("q"), Type: typeFilter})
		for t, e := range view.Errors {
			fmt.Fprintf(os.Stderr, "failed to load %s reports: %v\n", t, e)
		}
		if view.Loading {
			fmt.Fprintln(os.Stderr, "some sources did not answer in time; the list is incomplete")
		}

		if cctx.Bool("json") {
			b, err := json.MarshalIndent(view.Reports, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tID\tSTATUS\tTARGET\tREPORTER\tREASON\tCREATED")
		for _, r := range view.Reports {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Type, r.ID, r.Status, deref(r.TargetTitle, r.TargetID), r.ReporterName, r.Reason,
				time.UnixMilli(r.CreatedAt).UTC().Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var resolveCmd = &cli.Command{
	Name:  "resolve",
	Usage: "resolve or dismiss a report, optionally moderating its creator",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "type", Required: true},
		&cli.StringFlag{Name: "id", Required: true},
		&cli.StringFlag{Name: "decision", Value: string(reports.DecisionResolved)},
		&cli.StringFlag{Name: "notes"},
		&cli.StringFlag{Name: "creator-action", Usage: "also flag or suspend the creator"},
	},
	Action: func(cctx *cli.Context) error {
		t := reports.Type(cctx.String("type"))
		if !t.Valid() {
			return fmt.Errorf("%w: %q", reports.ErrInvalidType, t)
		}

		ctx, cancel := context.WithTimeout(cctx.Context, cctx.Duration("timeout"))
		defer cancel()

		c := apiClient(cctx)
		report, err := c.GetReport(ctx, t, cctx.String("id"))
		if err != nil {
			return err
		}

		ctrl := reports.NewController(c, reports.Hooks{})
		if err := ctrl.Select(report); err != nil {
			return err
		}
		if err := ctrl.SetNotes(cctx.String("notes")); err != nil {
			return err
		}

		decision := reports.Decision(cctx.String("decision"))
		if action := cctx.String("creator-action"); action != "" {
			_, notice, err := ctrl.ResolveAndModerate(ctx, decision, reports.CreatorAction(action))
			printNotice(notice)
			return err
		}
		notice, err := ctrl.Resolve(ctx, decision)
		printNotice(notice)
		return err
	},
}

var creatorCmd = &cli.Command{
	Name:  "creator",
	Usage: "flag or suspend a creator",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "id", Required: true},
		&cli.StringFlag{Name: "action", Required: true, Usage: "flagged or suspended"},
		&cli.StringFlag{Name: "note"},
	},
	Action: func(cctx *cli.Context) error {
		action := reports.CreatorAction(cctx.String("action"))
		if !action.Valid() {
			return reports.ErrInvalidAction
		}

		ctx, cancel := context.WithTimeout(cctx.Context, cctx.Duration("timeout"))
		defer cancel()

		if err := apiClient(cctx).ModerateCreator(ctx, cctx.String("id"), action, cctx.String("note")); err != nil {
			return err
		}
		fmt.Printf("creator %s %s\n", cctx.String("id"), action)
		return nil
	},
}

func printNotice(n reports.Notice) {
	out := os.Stdout
	if n.Level == reports.NoticeError {
		out = os.Stderr
	}
	fmt.Fprintf(out, "%s: %s\n", n.Title, n.Message)
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
