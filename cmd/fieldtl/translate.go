package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZaguanLabs/fieldtl"
	"github.com/ZaguanLabs/fieldtl/config"
	"github.com/ZaguanLabs/fieldtl/document"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type translateFlags struct {
	valueFlags

	service     string
	apiKey      string
	baseURL     string
	output      string
	jsonOutput  bool
	quiet       bool
	noCache     bool
	concurrency int
}

func newTranslateCmd(g *globalFlags) *cobra.Command {
	f := &translateFlags{}

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate a field value to one or more locales",
		Long: `Translate a field value read from a file or stdin.

Plain, HTML, Markdown and slug values are read as text. Structured text,
rich text and SEO values are read as JSON. Each target locale is translated
independently; leaves within one value are always translated in order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, g, f, args)
		},
	}

	f.register(cmd, "Target locales (comma-separated, default from config)")
	cmd.Flags().StringVarP(&f.service, "service", "s", "", "Translation service: openAI, deepl, deeplFree, yandex, mock")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key (default from config or environment)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Custom API base URL")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Output results with statistics as JSON")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Suppress progress output")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Disable the translation cache")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 4, "Target locales translated at the same time")

	return cmd
}

// localeResult is the outcome for one target locale.
type localeResult struct {
	Locale     string `json:"locale"`
	Value      any    `json:"value"`
	Translated int    `json:"translated_count"`
	Skipped    int    `json:"skipped_count"`
	ElapsedMs  int64  `json:"elapsed_ms"`
}

// translateOutput is the --json output format.
type translateOutput struct {
	RunID   string         `json:"run_id"`
	Input   string         `json:"input"`
	Format  string         `json:"format"`
	Service string         `json:"service"`
	Results []localeResult `json:"results"`
}

func runTranslate(cmd *cobra.Command, g *globalFlags, f *translateFlags, args []string) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	if f.service != "" {
		cfg.Service = f.service
		// Credentials read for the configured service may not fit this one.
		cfg.APIKey = ""
		cfg.ApplyEnv(os.Getenv)
	}
	if f.apiKey != "" {
		cfg.APIKey = f.apiKey
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.noCache {
		cfg.Cache.Type = config.CacheNone
	}
	if err := f.apply(cfg); err != nil {
		return err
	}
	if len(cfg.TargetLocales) == 0 {
		return errors.New("at least one target locale is required (--to)")
	}

	data, inputName, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	value, err := decodeValue(data, fieldtl.Format(cfg.Format))
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger := g.newLogger(cmd).With("run_id", runID)

	ctx := commandContext(cmd)

	registry := prometheus.NewRegistry()
	backend, closeCache, err := buildBackend(ctx, cfg, fieldtl.NewBackendMetrics(registry), logger)
	if err != nil {
		return err
	}
	defer closeCache()

	engine := newEngine(cfg, backend, logger)

	if !f.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Translating %s to %v...\n", inputName, cfg.TargetLocales)
	}

	start := time.Now()
	results, err := translateAll(ctx, engine, cfg, value, f.concurrency)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	elapsed := time.Since(start)

	var out io.Writer = cmd.OutOrStdout()
	if f.output != "" {
		file, err := os.Create(f.output) // #nosec G304 - CLI tool writes user-specified files
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := writeResults(out, f.jsonOutput, translateOutput{
		RunID:   runID,
		Input:   inputName,
		Format:  cfg.Format,
		Service: cfg.Service,
		Results: results,
	}); err != nil {
		return err
	}

	if !f.quiet {
		translated := 0
		for _, r := range results {
			translated += r.Translated
		}
		stderr := cmd.ErrOrStderr()
		fmt.Fprintf(stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Locales:       %d\n", len(results))
		fmt.Fprintf(stderr, "  Translated:    %d\n", translated)
		fmt.Fprintf(stderr, "  Backend calls: %d\n", backendCalls(registry))
	}

	logger.Debug("run finished", "elapsed", elapsed, "locales", len(results))
	return nil
}

// translateAll translates value to every target locale. Locales run
// concurrently up to limit; the first failure cancels the rest.
func translateAll(ctx context.Context, engine *fieldtl.Engine, cfg *config.Config, value any, limit int) ([]localeResult, error) {
	targets := cfg.TargetLocales
	results := make([]localeResult, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, target := range targets {
		g.Go(func() error {
			start := time.Now()
			res, err := engine.Translate(ctx, value, cfg.Options(target))
			if err != nil {
				return fmt.Errorf("%s: %w", target, err)
			}
			results[i] = localeResult{
				Locale:     target,
				Value:      res.Value,
				Translated: res.TranslatedCount,
				Skipped:    res.SkippedCount,
				ElapsedMs:  time.Since(start).Milliseconds(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeResults prints a single text result as is; anything else as JSON.
func writeResults(w io.Writer, asJSON bool, out translateOutput) error {
	if asJSON {
		return writeJSON(w, out)
	}

	if len(out.Results) == 1 {
		if s, ok := out.Results[0].Value.(string); ok {
			_, err := io.WriteString(w, s)
			return err
		}
		return document.Encode(w, out.Results[0].Value)
	}

	byLocale := document.NewObject()
	for _, r := range out.Results {
		byLocale.Set(r.Locale, r.Value)
	}
	return writeJSON(w, byLocale)
}

// backendCalls sums the backend call counter over all services.
func backendCalls(registry *prometheus.Registry) int {
	families, err := registry.Gather()
	if err != nil {
		return 0
	}

	total := 0.0
	for _, mf := range families {
		if mf.GetName() != "fieldtl_backend_calls_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return int(total)
}
