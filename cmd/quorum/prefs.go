package main

import (
	"context"
	"fmt"

	"github.com/sandevgo/quorum/internal/config"
	"github.com/sandevgo/quorum/internal/core"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var prefsFlags struct {
	providers   []string
	keywords    []string
	minLength   int
	prefer      []string
	byLength    bool
	byRatings   bool
	resetFilter bool
	resetPrefer bool
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change the answer filter and recommendation policy",
	Long: `Without flags, prints the saved preferences.
Only the flags given are changed; list flags replace the whole list.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			if err := applyPrefs(cmd, a); err != nil {
				return err
			}

			out, err := yaml.Marshal(config.Preferences{
				Filter:         a.selection.FilterConfig(),
				Recommendation: a.selection.RecommendationConfig(),
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		})
	},
}

func applyPrefs(cmd *cobra.Command, a *app) error {
	flags := cmd.Flags()

	if prefsFlags.resetFilter {
		if err := a.selection.ResetFilter(); err != nil {
			return err
		}
	}
	if prefsFlags.resetPrefer {
		if err := a.selection.ResetRecommendation(); err != nil {
			return err
		}
	}

	var fu core.FilterUpdate
	if flags.Changed("providers") {
		fu.Providers = &prefsFlags.providers
	}
	if flags.Changed("keywords") {
		fu.Keywords = &prefsFlags.keywords
	}
	if flags.Changed("min-length") {
		fu.MinLength = &prefsFlags.minLength
	}
	if fu != (core.FilterUpdate{}) {
		if err := a.selection.UpdateFilter(fu); err != nil {
			return err
		}
	}

	var ru core.RecommendationUpdate
	if flags.Changed("prefer") {
		ru.PreferredProviders = &prefsFlags.prefer
	}
	if flags.Changed("by-length") {
		ru.UseContentLength = &prefsFlags.byLength
	}
	if flags.Changed("by-ratings") {
		ru.UseUserRatings = &prefsFlags.byRatings
	}
	if ru != (core.RecommendationUpdate{}) {
		return a.selection.UpdateRecommendation(ru)
	}
	return nil
}

func init() {
	f := prefsCmd.Flags()
	f.StringSliceVar(&prefsFlags.providers, "providers", nil, "filter: allowed providers, empty for any")
	f.StringSliceVar(&prefsFlags.keywords, "keywords", nil, "filter: keywords, any must match")
	f.IntVar(&prefsFlags.minLength, "min-length", 0, "filter: minimum answer length, 0 disables")
	f.StringSliceVar(&prefsFlags.prefer, "prefer", nil, "recommendation: preferred providers")
	f.BoolVar(&prefsFlags.byLength, "by-length", false, "recommendation: prefer the longest answer")
	f.BoolVar(&prefsFlags.byRatings, "by-ratings", true, "recommendation: prefer the highest-rated answer")
	f.BoolVar(&prefsFlags.resetFilter, "reset-filter", false, "clear the filter before applying other flags")
	f.BoolVar(&prefsFlags.resetPrefer, "reset-recommendation", false, "restore the default recommendation policy first")
	rootCmd.AddCommand(prefsCmd)
}
