package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/smartshop/internal/cli"
	"github.com/Veraticus/smartshop/internal/common"
	"github.com/Veraticus/smartshop/internal/model"
	"github.com/Veraticus/smartshop/internal/textparse"
	"github.com/spf13/cobra"
)

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Record purchases from free text",
		Long: `Record purchases written as free text. Items are separated by commas,
semicolons, "and" or new lines, and may carry a quantity and unit.`,
		Example: `  smartshop add "bought 2kg apples, a dozen eggs and milk"
  smartshop add 3 bananas, 500g cheese`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer s.Close()

			purchases, err := s.assistant.AddItems(ctx, a.settings.UserID, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Added %d item(s)", len(purchases))))
			_, _ = fmt.Fprint(out, cli.RenderPurchases(purchases))

			for _, p := range purchases {
				if p.Unit == model.UnitPiece && p.Quantity == model.DefaultQuantity {
					_, _ = fmt.Fprintln(out, cli.SubtleStyle.Render("  "+p.ItemName+": "+textparse.QuantityHint(p.ItemName)))
				}
			}
			return nil
		},
	}
}

func (a *app) suggestCmd() *cobra.Command {
	var withAI bool

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest items for your next shopping trip",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, withAI)
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := s.assistant.Suggest(ctx, a.settings.UserID)
			if err != nil {
				return err
			}

			var extra []string
			if withAI {
				extra, err = s.assistant.SuggestAdditional(ctx, report)
				if err != nil {
					if !errors.Is(err, common.ErrLLMUnavailable) {
						slog.Warn("AI suggestions failed", "error", err)
					}
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(common.UserMessage(err)))
				}
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, cli.FormatTitle(cli.CartIcon+" Shopping suggestions"))
			_, _ = fmt.Fprint(out, cli.RenderSuggestions(report.Groups, report.Defaults, extra))
			return nil
		},
	}

	cmd.Flags().BoolVar(&withAI, "ai", false, "ask the configured language model for additional items")

	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show your shopping statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.assistant.Stats(ctx, a.settings.UserID)
			if err != nil {
				return err
			}
			if stats.TotalPurchases == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No purchases recorded yet."))
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderStats(stats))
			return nil
		},
	}
}

func (a *app) similarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "similar <item>",
		Short: "Find previously bought items similar to a name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer s.Close()

			name := strings.Join(args, " ")
			similar, err := s.assistant.SimilarItems(ctx, a.settings.UserID, name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(similar) == 0 {
				_, _ = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Nothing similar to %q in your history.", name)))
				return nil
			}
			for _, item := range similar {
				_, _ = fmt.Fprintln(out, "  • "+item)
			}
			return nil
		},
	}
}

func (a *app) nextTripCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-trip",
		Short: "Predict your next shopping day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer s.Close()

			next, err := s.assistant.NextShoppingDay(ctx, a.settings.UserID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderNextTrip(next, time.Now()))
			return nil
		},
	}
}
