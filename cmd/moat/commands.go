package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/moat/internal/conversation"
	"github.com/hammamikhairi/moat/internal/display"
	"github.com/hammamikhairi/moat/internal/domain"
	"github.com/hammamikhairi/moat/internal/engine"
	"github.com/hammamikhairi/moat/internal/render"
)

// newRootCmd builds the command tree. Each call returns fresh commands and
// flags so tests can run them independently.
func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "moat",
		Short: "THE MOAT - a quest log for becoming irreplaceable",
		Long: `THE MOAT is a satirical quest log. Each mission is a technique for
making a codebase unreadable to AI agents. Unlocking a mission raises your
Job Security and the System Chaos.

Run without arguments to open the interactive dashboard.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, f, runDashboard)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose/debug logging")
	pf.BoolVarP(&f.quiet, "quiet", "q", false, "disable all logging")
	pf.StringVar(&f.logFile, "log-file", "", "file to write logs to (use \"stderr\" to log to console; env MOAT_LOG_FILE)")
	pf.StringVar(&f.catalog, "catalog", "", "alternate YAML catalog (env MOAT_CATALOG)")
	pf.StringVar(&f.style, "style", "", "briefing style: auto, dark, light, notty, ascii, dracula, pink (env MOAT_STYLE)")
	pf.BoolVar(&f.sound, "sound", false, "play an alarm chirp on every fresh unlock (env MOAT_SOUND)")

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the missions in catalog order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, f, runList)
			},
		},
		&cobra.Command{
			Use:   "show <n|id>",
			Short: "Print a mission briefing",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, f, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
					return runShow(ctx, a, cmd, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "play <n|id>...",
			Short: "Unlock missions in order and print the resulting counters",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, f, runPlay)
			},
		},
		newRenderCmd(f),
	)
	return root
}

func newRenderCmd(f *flags) *cobra.Command {
	var (
		output   string
		unlocks  []string
		selected string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the quest log as a static HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, f, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
				return runRender(ctx, a, cmd, output, unlocks, selected)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringSliceVar(&unlocks, "unlock", nil, "missions to unlock before rendering, in order")
	cmd.Flags().StringVar(&selected, "select", "", "mission to show in the main panel")
	return cmd
}

type runFunc func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error

// withApp resolves config, wires the app, runs fn and tears down.
func withApp(cmd *cobra.Command, f *flags, fn runFunc) error {
	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a, cmd, cmd.Flags().Args())
}

func runDashboard(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	session, err := a.engine.StartSession(ctx)
	if err != nil {
		return err
	}

	parser := conversation.NewKeywordParser(a.log)
	m := display.New(ctx, a.engine, parser, a.catalog.All(), session, a.log,
		display.WithStyle(a.cfg.Style))

	if err := display.Run(ctx, m); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), conversation.LineBye())
	return nil
}

func runList(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	list, err := a.engine.ListRecipes(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, display.RenderBanner(0))
	fmt.Fprintln(out)
	for _, r := range list {
		fmt.Fprintf(out, "  %02d  %-26s  chaos %3.0f  %s\n", r.Level, r.ID, r.ChaosFactor, r.Title)
	}
	return nil
}

func runShow(ctx context.Context, a *app, cmd *cobra.Command, ref string) error {
	id, err := a.resolve(ctx, ref)
	if err != nil {
		return err
	}
	r, err := a.engine.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	session, err := a.engine.StartSession(ctx)
	if err != nil {
		return err
	}

	md, err := display.NewMarkdown(a.cfg.Style, terminalWidth(cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	out, err := md.RenderRecipe(*r, engine.IsDone(session, r.ID))
	if err != nil {
		a.log.Warn("%v", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func runPlay(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	session, err := a.engine.StartSession(ctx)
	if err != nil {
		return err
	}
	notifier := conversation.NewCLINotifier(a.log, cmd.OutOrStdout())

	for _, ref := range args {
		// Unknown references are skipped, like any unknown unlock.
		id, ok := a.engine.Resolve(ctx, ref)
		if !ok {
			id = ref
		}
		res, err := a.engine.Unlock(ctx, session.ID, id)
		if err != nil {
			return err
		}
		if err := notifyUnlock(ctx, notifier, ref, res); err != nil {
			return err
		}
	}

	status := conversation.LineStatus(session.Progress, a.catalog.Len())
	if err := notifier.Notify(ctx, status); err != nil {
		return err
	}
	if session.Progress.SecurityScore >= domain.MaxScore {
		return notifier.NotifyUrgent(ctx, conversation.LineMaxedOut())
	}
	return nil
}

func notifyUnlock(ctx context.Context, n domain.Notifier, ref string, res *domain.UnlockResult) error {
	switch {
	case res.Recipe == nil:
		return n.NotifyUrgent(ctx, conversation.LineUnknownRecipe(ref))
	case !res.Fresh:
		return n.Notify(ctx, conversation.LineAlreadyDeployed(res.Recipe))
	default:
		return n.Notify(ctx, conversation.LineUnlocked(res.Recipe, res.SecurityDelta, res.ChaosDelta))
	}
}

func runRender(ctx context.Context, a *app, cmd *cobra.Command, output string, unlocks []string, selected string) error {
	session, err := a.engine.StartSession(ctx)
	if err != nil {
		return err
	}
	for _, ref := range unlocks {
		ref = strings.TrimSpace(ref)
		id, ok := a.engine.Resolve(ctx, ref)
		if !ok {
			a.log.Warn("render: skipping unknown mission %q", ref)
			continue
		}
		if _, err := a.engine.Unlock(ctx, session.ID, id); err != nil {
			return err
		}
	}
	if selected != "" {
		id, err := a.resolve(ctx, selected)
		if err != nil {
			return err
		}
		if session, err = a.engine.Select(ctx, session.ID, id); err != nil {
			return err
		}
	}

	r, err := render.New(a.log)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if err := r.Render(w, a.catalog.All(), session); err != nil {
		return err
	}
	if output != "" {
		a.log.Info("wrote %s", output)
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
	}
	return nil
}

// terminalWidth returns the width to wrap briefings at: the terminal width
// when writing to one, 80 otherwise.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width := display.TermWidth(f); width > 0 {
			return width - 2
		}
	}
	return 80
}
