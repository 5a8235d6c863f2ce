package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/widgets/internal/core/datatable"
	"github.com/colonyops/widgets/internal/core/logging"
	"github.com/colonyops/widgets/internal/render/plain"
	"github.com/colonyops/widgets/internal/widgets"
	"github.com/colonyops/widgets/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags
	app   *widgets.App

	// flags
	page       int
	pageSize   int
	sort       string
	desc       bool
	jsonOutput bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags, app *widgets.App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: app}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "List recorded notifications",
		UsageText: "widgets history [--page N] [--sort KEY [--desc]] [--json]",
		Description: `Shows every notification recorded by toast and table sessions, newest first.

Sortable columns: created_at, kind, title, message, timeout.
Use --json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "page",
				Usage:       "page to show",
				Value:       1,
				Destination: &cmd.page,
			},
			&cli.IntFlag{
				Name:        "page-size",
				Usage:       "rows per page (defaults to table.page_size from config)",
				Destination: &cmd.pageSize,
			},
			&cli.StringFlag{
				Name:        "sort",
				Aliases:     []string{"s"},
				Usage:       "column key to sort by",
				Destination: &cmd.sort,
			},
			&cli.BoolFlag{
				Name:        "desc",
				Usage:       "sort descending (requires --sort)",
				Destination: &cmd.desc,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
		Commands: []*cli.Command{
			{
				Name:      "clear",
				Usage:     "Delete all recorded notifications",
				UsageText: "widgets history clear",
				Action:    cmd.runClear,
			},
		},
	})

	return app
}

// historyEntry is the JSON output format for widgets history --json.
type historyEntry struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message,omitempty"`
	TimeoutMs int64     `json:"timeout_ms"`
	CreatedAt time.Time `json:"created_at"`
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "history")
	out := c.Root().Writer

	if cmd.jsonOutput {
		items, err := cmd.app.History.List(ctx)
		if err != nil {
			return err
		}
		for _, n := range items {
			entry := historyEntry{
				ID:        string(n.ID),
				Seq:       n.Seq,
				Kind:      string(n.Kind),
				Title:     n.Title,
				Message:   n.Message,
				TimeoutMs: n.Timeout.Milliseconds(),
				CreatedAt: n.CreatedAt,
			}
			if err := iojson.WriteLine(out, entry); err != nil {
				return fmt.Errorf("encode history entry: %w", err)
			}
		}
		return nil
	}

	records, err := cmd.app.History.Records(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(os.Stderr, "No notifications recorded\n")
		return nil
	}

	pageSize := cmd.pageSize
	if pageSize <= 0 {
		pageSize = cmd.app.Config.Table.PageSize
	}

	tbl := datatable.New(widgets.HistoryColumns(), pageSize)
	tbl.SetRecords(records)
	if err := applySort(tbl, cmd.sort, cmd.desc); err != nil {
		return err
	}
	tbl.GoToPage(cmd.page)

	log.Debug().Ctx(ctx).Int("records", tbl.Len()).Int("page", tbl.CurrentPage()).Msg("listing history")
	return plain.Render(out, tbl)
}

func (cmd *HistoryCmd) runClear(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "history clear")

	n, err := cmd.app.History.Clear(ctx)
	if err != nil {
		return err
	}

	log.Info().Ctx(ctx).Int64("removed", n).Msg("history cleared")
	_, _ = fmt.Fprintf(c.Root().Writer, "Removed %d notification(s)\n", n)
	return nil
}
