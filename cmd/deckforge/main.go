// deckforge generates multi-slide presentation decks from a brief:
// plan, draft, lay out, verify, repair, export.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"deckforge/internal/completion"
	"deckforge/internal/config"
	"deckforge/internal/export"
	"deckforge/internal/logging"
	"deckforge/internal/orchestrator"
	"deckforge/internal/planner"
	"deckforge/internal/template"
	"deckforge/internal/verify"
	"deckforge/internal/version"
)

var (
	// Global flags
	cfgPath string
	verbose bool

	// generate/plan flags
	brief      string
	title      string
	slideCount int
	outDir     string
	tone       []string
	noBrowser  bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "deckforge",
	Short: "deckforge - LLM-driven presentation deck generator",
	Long: `deckforge turns a short brief into a complete slide deck.

Each slide runs through its own pipeline: content drafting, grid
layout, quality verification, and a bounded self-repair loop. The
finished deck is exported as HTML and JSON and snapshotted into a
local version store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		if logger, err = zcfg.Build(); err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
		if outDir != "" {
			cfg.Export.OutDir = outDir
		}
		if verbose {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}
		return logging.Initialize(logging.Settings{
			DebugMode:  cfg.Logging.DebugMode,
			Dir:        cfg.Logging.Dir,
			Level:      cfg.Logging.Level,
			Categories: cfg.Logging.Categories,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a full deck from a brief",
	Long: `Plans the deck, generates every slide concurrently, verifies and
repairs layout quality, then exports the result.

Example:
  deckforge generate --brief "Q3 results for the board" --slides 8`,
	RunE: runGenerate,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the slide outline for a brief without generating",
	RunE:  runPlan,
}

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Inspect the deck version store",
}

var versionsListCmd = &cobra.Command{
	Use:   "list [deck-id]",
	Short: "List saved versions of a deck",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionsList,
}

var versionsDiffCmd = &cobra.Command{
	Use:   "diff [deck-id] [version-a] [version-b]",
	Short: "Show slide-level differences between two versions",
	Args:  cobra.ExactArgs(3),
	RunE:  runVersionsDiff,
}

var versionsRestoreCmd = &cobra.Command{
	Use:   "restore [deck-id] [version-id]",
	Short: "Re-export a deck from a saved version",
	Args:  cobra.ExactArgs(2),
	RunE:  runVersionsRestore,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "deckforge.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "", "output directory (overrides config)")

	for _, c := range []*cobra.Command{generateCmd, planCmd} {
		c.Flags().StringVar(&brief, "brief", "", "what the deck should cover (required)")
		c.Flags().IntVar(&slideCount, "slides", 0, "number of slides (default from config)")
		_ = c.MarkFlagRequired("brief")
	}
	generateCmd.Flags().StringVar(&title, "title", "", "deck title (defaults to the brief)")
	generateCmd.Flags().StringSliceVar(&tone, "tone", nil, "tone tags for theme selection (e.g. formal,bold)")
	generateCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "skip the headless-browser layout check")

	versionsCmd.AddCommand(versionsListCmd, versionsDiffCmd, versionsRestoreCmd)
	rootCmd.AddCommand(generateCmd, planCmd, versionsCmd)
}

func newClient(ctx context.Context) (completion.Client, error) {
	switch cfg.Completion.Provider {
	case "mock":
		mock := completion.NewMockClient()
		mock.Fallback = "{}"
		return mock, nil
	default:
		return completion.NewGenAIClient(ctx, cfg.Completion)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	client, err := newClient(ctx)
	if err != nil {
		return err
	}

	registry := template.NewRegistry()
	if err := registry.LoadCatalog("templates.yaml"); err != nil {
		logger.Warn("template catalog not loaded", zap.Error(err))
	}
	if watcher, werr := template.NewWatcher(registry, "templates.yaml"); werr == nil {
		if werr = watcher.Start(ctx); werr == nil {
			defer watcher.Stop()
		}
	}

	store, err := version.Open(cfg.Export.VersionDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	n := slideCount
	if n <= 0 {
		n = cfg.Generation.DefaultSlideCount
	}
	deckTitle := title
	if deckTitle == "" {
		deckTitle = brief
	}

	p := planner.New(client, cfg.Completion)
	plans := p.Plan(ctx, brief, n)
	fmt.Println(renderOutline(plans))

	o := orchestrator.New(cfg, client, registry).WithVersionStore(store)
	if !noBrowser {
		dom := verify.NewRodVerifier()
		defer dom.Close()
		o.WithDOMVerifier(dom)
	}

	req := orchestrator.Request{
		DeckID: uuid.NewString(), Title: deckTitle, Brief: brief, Plans: plans, Tone: tone,
	}

	// Stream progress while the deck generates. The channel appears as
	// soon as the job registers and closes when it finishes.
	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		var ch <-chan orchestrator.Event
		for ch == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(10 * time.Millisecond):
				ch = o.Events(req.DeckID)
			}
		}
		for ev := range ch {
			if line := renderEvent(ev); line != "" {
				fmt.Println(line)
			}
		}
	}()

	gen, summary, err := o.Generate(ctx, req)
	<-printerDone
	if err != nil {
		return err
	}
	fmt.Println(renderSummary(summary))

	exporter := export.NewExporter(cfg.Export,
		export.NewHTMLWriter(registry, cfg.Generation.SlideWidth, cfg.Generation.SlideHeight),
		export.JSONWriter{},
	)
	paths, err := exporter.Export(ctx, gen)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(pathStyle.Render("  wrote " + p))
	}
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	client, err := newClient(ctx)
	if err != nil {
		return err
	}
	n := slideCount
	if n <= 0 {
		n = cfg.Generation.DefaultSlideCount
	}
	plans := planner.New(client, cfg.Completion).Plan(ctx, brief, n)
	fmt.Println(renderOutline(plans))
	return nil
}

func runVersionsList(cmd *cobra.Command, args []string) error {
	store, err := version.Open(cfg.Export.VersionDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	versions, err := store.ListVersions(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Println("no versions saved for deck " + args[0])
		return nil
	}
	for _, v := range versions {
		fmt.Printf("%s  %-16s %s  (%d slides)\n",
			v.ID, v.Label, v.CreatedAt.Format("2006-01-02 15:04:05"), len(v.Deck.Slides))
	}
	return nil
}

func runVersionsDiff(cmd *cobra.Command, args []string) error {
	store, err := version.Open(cfg.Export.VersionDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	d, err := store.DiffVersions(cmd.Context(), args[0], args[1], args[2])
	if err != nil {
		return err
	}
	if d.Empty() {
		fmt.Println("versions are identical")
		return nil
	}
	printIDList := func(label string, ids []string) {
		if len(ids) > 0 {
			fmt.Printf("%s: %s\n", label, strings.Join(ids, ", "))
		}
	}
	printIDList("added", d.Added)
	printIDList("removed", d.Removed)
	printIDList("modified", d.Modified)
	return nil
}

func runVersionsRestore(cmd *cobra.Command, args []string) error {
	store, err := version.Open(cfg.Export.VersionDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	deck, err := store.RestoreVersion(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	registry := template.NewRegistry()
	exporter := export.NewExporter(cfg.Export,
		export.NewHTMLWriter(registry, cfg.Generation.SlideWidth, cfg.Generation.SlideHeight),
		export.JSONWriter{},
	)
	paths, err := exporter.Export(cmd.Context(), deck)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(pathStyle.Render("  wrote " + p))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
