package main

import (
	"context"
	"fmt"

	"github.com/ZaguanLabs/fieldtl"
	"github.com/ZaguanLabs/fieldtl/cache"
	"github.com/ZaguanLabs/fieldtl/config"
	"github.com/spf13/cobra"
)

func newCacheCmd(g *globalFlags) *cobra.Command {
	var redisURL string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Export or import a Redis translation cache",
	}
	cmd.PersistentFlags().StringVar(&redisURL, "redis-url", "", "Redis URL (default from config or "+config.EnvRedisURL+")")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(g.configPath)
		if err != nil {
			return nil, err
		}
		if redisURL != "" {
			cfg.Cache.RedisURL = redisURL
		}
		return cfg, nil
	}

	var locale, service string
	export := &cobra.Command{
		Use:   "export <file>",
		Short: "Write cached translations to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)

			rc, err := openRedis(ctx, cfg)
			if err != nil {
				return err
			}
			defer rc.Close()

			n, err := cache.NewExporter(rc).ExportToFile(ctx, args[0], cache.ExportOptions{
				TargetLocale: locale,
				Service:      service,
				Metadata: map[string]string{
					"generator": fieldtl.Name,
					"version":   fieldtl.Version,
				},
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", n, args[0])
			return nil
		},
	}
	export.Flags().StringVar(&locale, "locale", "", "Only export translations into this target locale")
	export.Flags().StringVar(&service, "service", "", "Only export translations made by this service")

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Load cached translations from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)

			rc, err := openRedis(ctx, cfg)
			if err != nil {
				return err
			}
			defer rc.Close()

			res, err := cache.NewImporter(rc).ImportFromFile(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries from %s (%d skipped, %d failed)\n", res.Imported, args[0], res.Skipped, res.Failed)
			return nil
		},
	}

	cmd.AddCommand(export, imp)
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
