package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/widgets/internal/core/datatable"
	"github.com/colonyops/widgets/internal/core/logging"
	"github.com/colonyops/widgets/internal/data/dataset"
	"github.com/colonyops/widgets/internal/render/htmltable"
	"github.com/colonyops/widgets/internal/render/plain"
	"github.com/colonyops/widgets/internal/tui"
	"github.com/colonyops/widgets/internal/widgets"
)

// Output formats accepted by --format.
const (
	FormatTUI   = "tui"
	FormatPlain = "plain"
	FormatHTML  = "html"
)

var errDescWithoutSort = errors.New("--desc requires --sort")

type TableCmd struct {
	flags *Flags
	app   *widgets.App

	// flags
	columns  []string
	sort     string
	desc     bool
	page     int
	pageSize int
	format   string
	output   string
}

// NewTableCmd creates a new table command
func NewTableCmd(flags *Flags, app *widgets.App) *TableCmd {
	return &TableCmd{flags: flags, app: app}
}

// Register adds the table command to the application
func (cmd *TableCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "table",
		Usage:     "Display a JSON, YAML, or CSV dataset as a sortable, paginated table",
		UsageText: "widgets table [options] <file>",
		Description: `Loads a list of records and renders it as a data table.

The interactive view (default on a terminal) supports column sorting with
enter and paging with n/p. Use --format plain for a static table or
--format html for a self-contained HTML document.

Columns default to every key in the dataset. Pick and relabel them with
--columns key or --columns key:Label (repeatable).`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "columns",
				Usage:       "columns to show as key or key:Label (repeatable)",
				Destination: &cmd.columns,
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
			&cli.IntFlag{
				Name:        "page",
				Usage:       "page to open (clamped to the available pages)",
				Value:       1,
				Destination: &cmd.page,
			},
			&cli.IntFlag{
				Name:        "page-size",
				Usage:       "rows per page (defaults to table.page_size from config)",
				Destination: &cmd.pageSize,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (tui, plain, html); defaults to tui on a terminal",
				Destination: &cmd.format,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write html output to this file instead of stdout",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *TableCmd) run(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return cli.ShowSubcommandHelp(c)
	}

	ctx = logging.WithCommand(ctx, "table")
	ctx = logging.WithDataset(ctx, path)

	format, err := cmd.resolveFormat()
	if err != nil {
		return err
	}

	ds, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	columns, err := dataset.SelectColumns(ds.Columns, cmd.columns)
	if err != nil {
		return fmt.Errorf("select columns: %w", err)
	}

	tbl, err := cmd.buildTable(columns, ds.Records)
	if err != nil {
		return err
	}

	log.Debug().Ctx(ctx).
		Int("records", tbl.Len()).
		Int("columns", len(columns)).
		Str("format", format).
		Msg("rendering dataset")

	switch format {
	case FormatPlain:
		return plain.Render(c.Root().Writer, tbl)
	case FormatHTML:
		return cmd.writeHTML(c.Root().Writer, path, tbl)
	default:
		return cmd.runTUI(tbl)
	}
}

func (cmd *TableCmd) resolveFormat() (string, error) {
	switch strings.ToLower(cmd.format) {
	case "":
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return FormatTUI, nil
		}
		return FormatPlain, nil
	case FormatTUI:
		return FormatTUI, nil
	case FormatPlain:
		return FormatPlain, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected tui, plain, or html)", cmd.format)
	}
}

// buildTable applies the sort and page flags to a new table.
func (cmd *TableCmd) buildTable(columns []datatable.Column, records []datatable.Record) (*datatable.Table, error) {
	pageSize := cmd.pageSize
	if pageSize <= 0 {
		pageSize = cmd.app.Config.Table.PageSize
	}

	tbl := datatable.New(columns, pageSize)
	tbl.SetRecords(records)

	if err := applySort(tbl, cmd.sort, cmd.desc); err != nil {
		return nil, err
	}
	tbl.GoToPage(cmd.page)
	return tbl, nil
}

// applySort sorts tbl by key, flipping to descending when desc is set.
func applySort(tbl *datatable.Table, key string, desc bool) error {
	if key == "" {
		if desc {
			return errDescWithoutSort
		}
		return nil
	}

	col, ok := tbl.Column(key)
	if !ok {
		return fmt.Errorf("unknown sort column %q", key)
	}
	if !col.Sortable() {
		return fmt.Errorf("column %q is not sortable", key)
	}

	tbl.SortBy(key)
	if desc {
		tbl.SortBy(key)
	}
	return nil
}

func (cmd *TableCmd) writeHTML(stdout io.Writer, path string, tbl *datatable.Table) error {
	title := filepath.Base(path)
	if cmd.output == "" {
		return htmltable.Render(stdout, title, tbl)
	}

	f, err := os.Create(cmd.output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := htmltable.Render(f, title, tbl); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return f.Close()
}

func (cmd *TableCmd) runTUI(tbl *datatable.Table) error {
	cfg := cmd.app.Config

	m := tui.New(
		tui.Deps{Queue: cmd.app.Queue, Table: tbl},
		tui.Opts{
			Position:   cfg.Notifications.Position,
			MaxVisible: cfg.Notifications.MaxVisible,
			PageWindow: cfg.Table.PageWindow,
		},
	)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
