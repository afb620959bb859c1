// ABOUTME: CLI entry point for cropdoc plant-health diagnosis
// ABOUTME: Loads config, preprocesses images, diagnoses concurrently, renders reports

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/planthaus/cropdoc/internal/config"
	"github.com/planthaus/cropdoc/internal/crops"
	"github.com/planthaus/cropdoc/internal/diagnose"
	"github.com/planthaus/cropdoc/internal/imaging"
	cdlog "github.com/planthaus/cropdoc/internal/log"
	"github.com/planthaus/cropdoc/internal/render"
	"github.com/planthaus/cropdoc/internal/trace"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// maxConcurrentDiagnoses bounds in-flight calls when many images are given.
const maxConcurrentDiagnoses = 4

func main() {
	args := parseFlags()

	if args.version {
		fmt.Printf("cropdoc %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args cliArgs) error {
	paths := args.remaining()
	if len(paths) == 0 {
		return fmt.Errorf("no images given; usage: cropdoc [flags] image.jpg ...")
	}

	if args.verbose {
		cdlog.SetLevel(cdlog.LevelDebug)
	}

	cwd, _ := os.Getwd()
	settings, err := config.Load(cwd)
	if err != nil {
		return err
	}
	if args.endpoint != "" {
		settings.Endpoint = args.endpoint
	}
	if args.timeout > 0 {
		settings.TimeoutSeconds = args.timeout
	}
	if settings.Endpoint == "" {
		return fmt.Errorf("no endpoint configured; set --endpoint, %s, or endpoint: in %s",
			config.EnvEndpoint, config.GlobalConfigFile())
	}

	cropHint, err := resolveCrop(args.crop, settings)
	if err != nil {
		return err
	}

	bus := trace.New()
	bus.Subscribe(func(ev trace.Event) {
		if ev.Err != nil {
			cdlog.Debug("%s/%s: %s (%v)", ev.Component, ev.Stage, ev.Outcome, ev.Err)
			return
		}
		cdlog.Debug("%s/%s: %s %s", ev.Component, ev.Stage, ev.Outcome, ev.Detail)
	})

	client := diagnose.New(settings.Endpoint,
		diagnose.WithToolName(settings.Tool),
		diagnose.WithTimeout(settings.Timeout()),
		diagnose.WithTrace(bus),
	)

	styled := !args.plain && term.IsTerminal(int(os.Stdout.Fd()))

	stopSpinner := startSpinner(styled, fmt.Sprintf("Diagnosing %d image(s)...", len(paths)))
	results := diagnoseAll(context.Background(), client, settings, paths, cropHint)
	stopSpinner()

	width := 80
	if styled {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	failed := 0
	for i, path := range paths {
		res := results[i]
		if !res.OK {
			failed++
		}
		fmt.Println(render.StatusLine(path, res, styled))
		fmt.Print(render.Terminal(render.Markdown(path, res), width, styled))
		if i < len(paths)-1 {
			fmt.Println()
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d diagnoses failed", failed, len(paths))
	}
	return nil
}

// resolveCrop maps the flag (or configured default) through the catalog.
// Hints the catalog does not know pass through verbatim: the service may
// still recognize them.
func resolveCrop(hint string, settings *config.Settings) (string, error) {
	if hint == "" {
		hint = settings.DefaultCrop
	}
	if hint == "" {
		return "", nil
	}

	catalog := crops.Default()
	if settings.CatalogPath != "" {
		c, err := crops.LoadFile(settings.CatalogPath)
		if err != nil {
			return "", err
		}
		catalog = c
	}

	if resolved, ok := catalog.Resolve(hint); ok {
		if resolved != hint {
			cdlog.Info("crop hint %q resolved to %q", hint, resolved)
		}
		return resolved, nil
	}
	cdlog.Warn("crop hint %q not in catalog, sending as-is", hint)
	return hint, nil
}

// diagnoseAll runs one independent diagnosis per image, bounded-concurrent,
// and returns results in input order. File errors become failed Results so
// one bad path does not sink the batch.
func diagnoseAll(
	ctx context.Context,
	client *diagnose.Client,
	settings *config.Settings,
	paths []string,
	cropHint string,
) []diagnose.Result {
	results := make([]diagnose.Result, len(paths))

	var g errgroup.Group
	g.SetLimit(maxConcurrentDiagnoses)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = diagnoseOne(ctx, client, settings, path, cropHint)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func diagnoseOne(
	ctx context.Context,
	client *diagnose.Client,
	settings *config.Settings,
	path, cropHint string,
) diagnose.Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return diagnose.Result{OK: false, Kind: diagnose.KindInput,
			Err: fmt.Sprintf("reading %s: %v", path, err)}
	}

	prepared, mime, err := imaging.Prepare(data, settings.MaxImageDim, settings.MaxImageBytes)
	if err != nil {
		return diagnose.Result{OK: false, Kind: diagnose.KindInput,
			Err: fmt.Sprintf("preparing %s: %v", path, err)}
	}

	return client.Diagnose(ctx, imaging.DataURL(prepared, mime), cropHint)
}

// startSpinner shows a stderr spinner on TTYs and returns a stop function.
// The no-op path keeps piped and --plain runs quiet.
func startSpinner(styled bool, label string) func() {
	if !styled {
		return func() {}
	}

	p := tea.NewProgram(newSpinner(label), tea.WithOutput(os.Stderr))
	done := make(chan struct{})
	go func() {
		_, _ = p.Run()
		close(done)
	}()

	return func() {
		p.Send(doneMsg{})
		select {
		case <-done:
		case <-time.After(time.Second):
			p.Kill()
		}
	}
}
