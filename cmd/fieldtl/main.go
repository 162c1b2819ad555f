// Command fieldtl translates CMS field values while preserving their structure.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ZaguanLabs/fieldtl"
	"github.com/ZaguanLabs/fieldtl/config"
	"github.com/ZaguanLabs/fieldtl/document"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   fieldtl.Name,
		Short: fieldtl.Description,
		Long: `fieldtl translates CMS field values (plain text, HTML, Markdown, SEO objects,
slugs, structured text and rich text) leaf by leaf while keeping their structure.

Commands:
  translate   Translate a field value to one or more locales
  plan        List the texts a translation would send to the backend
  diff        Compare two versions of a field value
  cache       Export or import a Redis translation cache
  version     Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default: ./"+config.FileName+" if present)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newTranslateCmd(g),
		newPlanCmd(g),
		newDiffCmd(g),
		newCacheCmd(g),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", fieldtl.Name, fieldtl.FullVersion())
			if fieldtl.BuildDate != "unknown" && fieldtl.BuildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", fieldtl.BuildDate)
			}
			fmt.Fprintf(out, "  source:  %s (%s)\n", fieldtl.Repository, fieldtl.License)
		},
	}
}

// newLogger writes text logs to the command's stderr.
func (g *globalFlags) newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// valueFlags select how an input value is read and where it is translated to.
type valueFlags struct {
	format string
	editor string
	from   string
	to     []string
}

func (v *valueFlags) register(cmd *cobra.Command, toUsage string) {
	cmd.Flags().StringVarP(&v.format, "format", "f", "", "Value format: plain, html, markdown, structured_text, rich_text, seo, slug")
	cmd.Flags().StringVar(&v.editor, "editor", "", "Field editor the value comes from (e.g. wysiwyg, seo); sets --format")
	cmd.Flags().StringVar(&v.from, "from", "", "Source locale (default from config)")
	cmd.Flags().StringSliceVarP(&v.to, "to", "t", nil, toUsage)
}

// apply overlays the flags on cfg.
func (v *valueFlags) apply(cfg *config.Config) error {
	if v.editor != "" {
		format, ok := fieldtl.FormatForEditor(fieldtl.Editor(v.editor))
		if !ok {
			return fmt.Errorf("unknown editor %q", v.editor)
		}
		cfg.Format = string(format)
	}
	if v.format != "" {
		cfg.Format = v.format
	}
	if v.from != "" {
		cfg.SourceLocale = v.from
	}
	if len(v.to) > 0 {
		cfg.TargetLocales = v.to
	}
	return cfg.Validate()
}

// readInput reads the named file, or stdin when no file is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "stdin", nil
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return nil, "", fmt.Errorf("reading file: %w", err)
	}
	return data, filepath.Base(args[0]), nil
}

// decodeValue interprets raw input for format. Object formats are JSON;
// everything else is the text itself.
func decodeValue(data []byte, format fieldtl.Format) (any, error) {
	switch format {
	case fieldtl.FormatStructuredText, fieldtl.FormatRichText, fieldtl.FormatSEO:
		v, err := document.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing %s JSON: %w", format, err)
		}
		return v, nil
	}
	return string(data), nil
}

// writeJSON encodes v indented, leaving markup unescaped.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
