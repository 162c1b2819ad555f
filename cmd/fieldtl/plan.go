package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZaguanLabs/fieldtl"
	"github.com/ZaguanLabs/fieldtl/config"
	"github.com/spf13/cobra"
)

type planFlags struct {
	valueFlags
	jsonOutput bool
}

func newPlanCmd(g *globalFlags) *cobra.Command {
	f := &planFlags{}

	cmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "List the texts a translation would send to the backend",
		Long:  `Show every leaf that would be translated, with its location, without calling any backend.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadPlanConfig(g, &f.valueFlags)
			if err != nil {
				return err
			}

			data, inputName, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			leaves, err := planLeaves(cmd, g, cfg, data)
			if err != nil {
				return err
			}

			return printPlan(cmd.OutOrStdout(), inputName, cfg, leaves, f.jsonOutput)
		},
	}

	f.register(cmd, "Target locale used for locale checks (default: first configured)")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func loadPlanConfig(g *globalFlags, v *valueFlags) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if err := v.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// planTarget is the locale a plan is computed for. Plans do not depend on
// the target beyond it being resolvable.
func planTarget(cfg *config.Config) string {
	if len(cfg.TargetLocales) > 0 {
		return cfg.TargetLocales[0]
	}
	return "und"
}

func planLeaves(cmd *cobra.Command, g *globalFlags, cfg *config.Config, data []byte) ([]fieldtl.Leaf, error) {
	value, err := decodeValue(data, fieldtl.Format(cfg.Format))
	if err != nil {
		return nil, err
	}

	ctx := commandContext(cmd)

	engine := newEngine(cfg, nil, g.newLogger(cmd))
	return engine.Plan(ctx, value, cfg.Options(planTarget(cfg)))
}

func printPlan(w io.Writer, inputName string, cfg *config.Config, leaves []fieldtl.Leaf, asJSON bool) error {
	if asJSON {
		type planLeaf struct {
			Location string `json:"location"`
			Format   string `json:"format"`
			Text     string `json:"text"`
			Hash     string `json:"hash"`
		}
		type planOutput struct {
			InputFile string     `json:"input_file"`
			Format    string     `json:"format"`
			LeafCount int        `json:"leaf_count"`
			Leaves    []planLeaf `json:"leaves"`
		}

		out := planOutput{
			InputFile: inputName,
			Format:    cfg.Format,
			LeafCount: len(leaves),
			Leaves:    make([]planLeaf, 0, len(leaves)),
		}
		for _, l := range leaves {
			out.Leaves = append(out.Leaves, planLeaf{
				Location: l.Location,
				Format:   string(l.Format),
				Text:     l.Text,
				Hash:     l.Hash,
			})
		}
		return writeJSON(w, out)
	}

	fmt.Fprintf(w, "Plan: %s (%s)\n", inputName, cfg.Format)
	fmt.Fprintf(w, "Found %d translatable leaves:\n\n", len(leaves))
	for i, l := range leaves {
		fmt.Fprintf(w, "%3d. %q\n", i+1, truncate(l.Text, 60))
		fmt.Fprintf(w, "     at %s\n", l.Location)
	}
	return nil
}

type diffFlags struct {
	valueFlags
	jsonOutput bool
}

func newDiffCmd(g *globalFlags) *cobra.Command {
	f := &diffFlags{}

	cmd := &cobra.Command{
		Use:   "diff <previous> <current>",
		Short: "Compare two versions of a field value",
		Long: `Compare the translatable leaves of two versions of a field value and report
which texts would need to be translated again.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadPlanConfig(g, &f.valueFlags)
			if err != nil {
				return err
			}

			oldData, err := os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
			if err != nil {
				return fmt.Errorf("reading previous version: %w", err)
			}
			newData, err := os.ReadFile(args[1]) // #nosec G304 - CLI tool reads user-specified files
			if err != nil {
				return fmt.Errorf("reading current version: %w", err)
			}

			oldLeaves, err := planLeaves(cmd, g, cfg, oldData)
			if err != nil {
				return fmt.Errorf("parsing previous version: %w", err)
			}
			newLeaves, err := planLeaves(cmd, g, cfg, newData)
			if err != nil {
				return fmt.Errorf("parsing current version: %w", err)
			}

			diff := fieldtl.DiffLeavesWithLocation(oldLeaves, newLeaves)
			return printDiff(cmd.OutOrStdout(), filepath.Base(args[0]), filepath.Base(args[1]), diff, f.jsonOutput)
		},
	}

	f.register(cmd, "Target locale used for locale checks (default: first configured)")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func printDiff(w io.Writer, oldName, newName string, diff *fieldtl.DiffResult, asJSON bool) error {
	stats := diff.Stats()

	if asJSON {
		type modified struct {
			Location string `json:"location"`
			Old      string `json:"old"`
			New      string `json:"new"`
		}
		type diffOutput struct {
			PreviousFile string `json:"previous_file"`
			CurrentFile  string `json:"current_file"`
			Stats        struct {
				Added     int `json:"added"`
				Removed   int `json:"removed"`
				Modified  int `json:"modified"`
				Unchanged int `json:"unchanged"`
			} `json:"stats"`
			NeedsTranslation []string   `json:"needs_translation"`
			Added            []string   `json:"added,omitempty"`
			Removed          []string   `json:"removed,omitempty"`
			Modified         []modified `json:"modified,omitempty"`
		}

		out := diffOutput{
			PreviousFile:     oldName,
			CurrentFile:      newName,
			NeedsTranslation: []string{},
		}
		out.Stats.Added = stats.Added
		out.Stats.Removed = stats.Removed
		out.Stats.Modified = stats.Modified
		out.Stats.Unchanged = stats.Unchanged

		for _, l := range diff.NeedsTranslation() {
			out.NeedsTranslation = append(out.NeedsTranslation, l.Text)
		}
		for _, l := range diff.Added {
			out.Added = append(out.Added, l.Text)
		}
		for _, l := range diff.Removed {
			out.Removed = append(out.Removed, l.Text)
		}
		for _, m := range diff.Modified {
			out.Modified = append(out.Modified, modified{Location: m.New.Location, Old: m.Old.Text, New: m.New.Text})
		}
		return writeJSON(w, out)
	}

	fmt.Fprintf(w, "Diff: %s vs %s\n\n", newName, oldName)
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Unchanged: %d\n", stats.Unchanged)
	fmt.Fprintf(w, "  Added:     %d\n", stats.Added)
	fmt.Fprintf(w, "  Removed:   %d\n", stats.Removed)
	fmt.Fprintf(w, "  Modified:  %d\n\n", stats.Modified)

	if !diff.HasChanges() {
		fmt.Fprintf(w, "No changes detected. All translations are up to date.\n")
		return nil
	}

	fmt.Fprintf(w, "Needs translation: %d strings\n\n", len(diff.NeedsTranslation()))

	if len(diff.Added) > 0 {
		fmt.Fprintf(w, "Added:\n")
		for _, l := range diff.Added {
			fmt.Fprintf(w, "  + %q\n", truncate(l.Text, 50))
		}
		fmt.Fprintf(w, "\n")
	}
	if len(diff.Modified) > 0 {
		fmt.Fprintf(w, "Modified:\n")
		for _, m := range diff.Modified {
			fmt.Fprintf(w, "  ~ %q -> %q (%s)\n", truncate(m.Old.Text, 30), truncate(m.New.Text, 30), m.New.Location)
		}
		fmt.Fprintf(w, "\n")
	}
	if len(diff.Removed) > 0 {
		fmt.Fprintf(w, "Removed:\n")
		for _, l := range diff.Removed {
			fmt.Fprintf(w, "  - %q\n", truncate(l.Text, 50))
		}
		fmt.Fprintf(w, "\n")
	}
	return nil
}
