package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/widgets/internal/core/logging"
	"github.com/colonyops/widgets/internal/core/notify"
	"github.com/colonyops/widgets/internal/tui"
	"github.com/colonyops/widgets/internal/widgets"
	"github.com/colonyops/widgets/pkg/iojson"
)

// toastInput is the JSON shape accepted by toast --file.
type toastInput struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
	// Timeout is a Go duration string; empty uses the configured default.
	Timeout string `json:"timeout"`
}

type ToastCmd struct {
	flags *Flags
	app   *widgets.App

	// flags
	kind    string
	title   string
	message string
	timeout time.Duration
	file    iojson.FileReader[[]toastInput]
}

// NewToastCmd creates a new toast command
func NewToastCmd(flags *Flags, app *widgets.App) *ToastCmd {
	return &ToastCmd{flags: flags, app: app}
}

// Register adds the toast command to the application
func (cmd *ToastCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "toast",
		Usage:     "Show notifications as toasts until they time out",
		UsageText: "widgets toast [--kind info|success|warning|error] [--title T] --message M\n   widgets toast --file toasts.json",
		Description: `Queues one or more notifications and shows them in a terminal toaster.
The command exits once every toast has timed out or been dismissed (x / X).

With --file (or JSON piped to stdin) a list of toasts is read instead:

  [{"kind": "success", "title": "Deployed", "message": "v1.2.0", "timeout": "3s"}]

Every notification is recorded to history unless notifications.history is false.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "kind",
				Aliases:     []string{"k"},
				Usage:       "notification kind (info, success, warning, error)",
				Value:       string(notify.KindInfo),
				Destination: &cmd.kind,
			},
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "toast title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "message",
				Aliases:     []string{"m"},
				Usage:       "toast message",
				Destination: &cmd.message,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "how long the toast stays visible (0 waits for dismissal); defaults to notifications.default_timeout",
				Value:       -1,
				Destination: &cmd.timeout,
			},
			cmd.file.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ToastCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "toast")

	reqs, err := cmd.requests()
	if err != nil {
		return err
	}

	cfg := cmd.app.Config
	m := tui.New(
		tui.Deps{Queue: cmd.app.Queue},
		tui.Opts{
			Position:     cfg.Notifications.Position,
			MaxVisible:   cfg.Notifications.MaxVisible,
			ExitWhenIdle: true,
		},
	)
	defer m.Close()

	for _, req := range reqs {
		id := cmd.app.Queue.Enqueue(req)
		log.Debug().Ctx(ctx).Str("id", string(id)).Str("kind", string(req.Kind)).Msg("toast queued")
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// requests builds the notifications to show from flags or JSON input.
func (cmd *ToastCmd) requests() ([]notify.Request, error) {
	if !cmd.file.Provided() && (cmd.title != "" || cmd.message != "") {
		req, err := cmd.buildRequest(toastInput{Kind: cmd.kind, Title: cmd.title, Message: cmd.message}, cmd.timeout)
		if err != nil {
			return nil, err
		}
		return []notify.Request{req}, nil
	}

	inputs, err := cmd.file.Read()
	if err != nil {
		return nil, fmt.Errorf("read toasts: %w", err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("read toasts: no toasts in input")
	}

	reqs := make([]notify.Request, 0, len(inputs))
	for i, in := range inputs {
		timeout := time.Duration(-1)
		if in.Timeout != "" {
			timeout, err = time.ParseDuration(in.Timeout)
			if err != nil {
				return nil, fmt.Errorf("toast %d: parse timeout: %w", i+1, err)
			}
		}
		req, err := cmd.buildRequest(in, timeout)
		if err != nil {
			return nil, fmt.Errorf("toast %d: %w", i+1, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// buildRequest validates in. A negative timeout selects the configured default.
func (cmd *ToastCmd) buildRequest(in toastInput, timeout time.Duration) (notify.Request, error) {
	kind, err := notify.ParseKind(in.Kind)
	if err != nil {
		return notify.Request{}, err
	}
	if in.Title == "" && in.Message == "" {
		return notify.Request{}, fmt.Errorf("a title or message is required")
	}
	if timeout < 0 {
		timeout = cmd.app.Config.Notifications.DefaultTimeout
	}

	return notify.Request{
		Kind:    kind,
		Title:   in.Title,
		Message: in.Message,
		Timeout: timeout,
	}, nil
}
