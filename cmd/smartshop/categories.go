package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/smartshop/internal/cli"
	"github.com/Veraticus/smartshop/internal/common"
	"github.com/Veraticus/smartshop/internal/model"
	"github.com/spf13/cobra"
)

func (a *app) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect and tune item categories",
		Long: `Items are sorted into a fixed set of categories by keyword matching.
List the keyword table, test how a name is classified, or replace the
keywords of one category.`,
	}

	cmd.AddCommand(a.listCategoriesCmd())
	cmd.AddCommand(a.classifyCmd())
	cmd.AddCommand(a.setCategoryCmd())

	return cmd
}

func (a *app) listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories and their keywords",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			table, err := store.GetKeywordTable(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), cli.RenderKeywordTable(table))
			return nil
		},
	}
}

func (a *app) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <item>",
		Short: "Show the category an item name falls into",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer s.Close()

			name := strings.Join(args, " ")
			cat, err := s.assistant.Classify(ctx, name)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n", name, cli.CategoryStyle.Render(cat))
			return nil
		},
	}
}

func (a *app) setCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <keyword>[,<keyword>...]",
		Short: "Replace the keywords of a category",
		Example: `  smartshop categories set household "battery, batteries, light bulb"`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			name, ok := model.CanonicalCategory(args[0])
			if !ok {
				return common.NewUserError(
					fmt.Sprintf("Unknown category %q. Choose one of: %s", args[0], strings.Join(model.AllCategories(), ", ")),
					fmt.Errorf("unknown category %q", args[0]))
			}
			keywords := splitKeywords(strings.Join(args[1:], ","))

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetCategoryKeywords(ctx, name, keywords); err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated %s with %d keyword(s)", name, len(keywords))))
			return nil
		},
	}
}

func splitKeywords(s string) []string {
	var out []string
	for _, kw := range strings.Split(s, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
