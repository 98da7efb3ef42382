package main

import (
	"fmt"

	"github.com/Veraticus/smartshop/internal/cli"
	"github.com/Veraticus/smartshop/internal/common"
	"github.com/Veraticus/smartshop/internal/model"
	"github.com/spf13/cobra"
)

func (a *app) prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change your preferences",
	}

	cmd.AddCommand(a.showPrefsCmd())
	cmd.AddCommand(a.setPrefsCmd())

	return cmd
}

func (a *app) showPrefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer s.Close()

			prefs, err := s.assistant.Preferences(ctx, a.settings.UserID)
			if err != nil {
				return fmt.Errorf("failed to get preferences: %w", err)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), renderPreferences(prefs))
			return nil
		},
	}
}

func (a *app) setPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change your preferences",
		Example: `  smartshop prefs set --diet vegetarian
  smartshop prefs set --diet none --language de`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer s.Close()

			prefs, err := s.assistant.Preferences(ctx, a.settings.UserID)
			if err != nil {
				return fmt.Errorf("failed to get preferences: %w", err)
			}

			if cmd.Flags().Changed("diet") {
				raw, _ := cmd.Flags().GetString("diet")
				diet, err := model.ParseDiet(raw)
				if err != nil {
					return common.NewUserError("Diet must be one of: none, vegetarian, vegan, dairy-free, gluten-free.", err)
				}
				prefs.Diet = diet
			}
			if cmd.Flags().Changed("language") {
				prefs.Language, _ = cmd.Flags().GetString("language")
			}

			if err := s.assistant.UpdatePreferences(ctx, prefs); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Preferences saved"))
			_, _ = fmt.Fprint(cmd.OutOrStdout(), renderPreferences(prefs))
			return nil
		},
	}

	cmd.Flags().String("diet", "", "dietary preference (none, vegetarian, vegan, dairy-free, gluten-free)")
	cmd.Flags().String("language", "", "preferred language code, e.g. en or de")

	return cmd
}

func renderPreferences(p *model.Preferences) string {
	diet := string(p.Diet)
	if p.Diet == model.DietNone {
		diet = "none"
	}
	lang := p.Language
	if lang == "" {
		lang = "default"
	}
	return fmt.Sprintf("Diet:     %s\nLanguage: %s\n", diet, lang)
}
