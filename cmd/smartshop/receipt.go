package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/smartshop/internal/category"
	"github.com/Veraticus/smartshop/internal/cli"
	"github.com/Veraticus/smartshop/internal/common"
	"github.com/Veraticus/smartshop/internal/receipt"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func (a *app) receiptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Scan and manage receipts",
		Long:  `Read receipts from photos or OCR text and record their items as purchases.`,
		Example: `  # Scan receipt photos
  smartshop receipt scan ~/Pictures/receipt-1.jpg ~/Pictures/receipt-2.jpg

  # Parse OCR text saved by another tool, without saving
  smartshop receipt parse receipt.txt --dry-run

  # Show recent receipts
  smartshop receipt list --limit 5`,
	}

	cmd.AddCommand(a.receiptScanCmd())
	cmd.AddCommand(a.receiptParseCmd())
	cmd.AddCommand(a.receiptListCmd())

	return cmd
}

func (a *app) receiptScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <image>...",
		Short: "Recognize receipt photos and record their items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			s, err := a.openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := interrupts.HandleInterrupts(cmd.Context(), len(args) > 1)

			var bar *progressbar.ProgressBar
			if len(args) > 1 {
				bar = cli.NewScanProgress(cmd.ErrOrStderr(), len(args))
			}

			saved, skipped := 0, 0
			for _, path := range args {
				if ctx.Err() != nil {
					break
				}
				outcome, err := s.assistant.ScanReceipt(ctx, a.settings.UserID, path)
				switch {
				case err == nil:
					saved++
					_, _ = fmt.Fprintln(out, cli.RenderExtraction(outcome.Extraction))
				case errors.Is(err, common.ErrOCRUnavailable):
					return err
				case errors.Is(err, common.ErrNoItems):
					skipped++
					_, _ = fmt.Fprintln(out, cli.FormatWarning(path+": "+common.UserMessage(err)))
				case ctx.Err() != nil:
				default:
					skipped++
					slog.Warn("Failed to scan receipt", "path", path, "error", err)
					_, _ = fmt.Fprintln(out, cli.FormatError(path+": "+err.Error()))
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}

			if interrupts.WasInterrupted() {
				return nil
			}
			_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s Saved %d receipt(s), skipped %d", cli.ReceiptIcon, saved, skipped)))
			return nil
		},
	}
}

func (a *app) receiptParseCmd() *cobra.Command {
	var (
		confidence float64
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse receipt text produced by an OCR engine",
		Long: `Parse a text file holding the OCR output of one receipt. Use "-" to read
from standard input. Items are categorized and saved unless --dry-run is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			text, err := readReceiptText(args[0])
			if err != nil {
				return err
			}
			input := receiptInput(text, confidence)

			if dryRun {
				store, err := a.openStorage(ctx)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()

				table, err := store.GetKeywordTable(ctx)
				if err != nil {
					return fmt.Errorf("failed to load categories: %w", err)
				}
				extraction := receipt.NewParser(nil).Parse(input)
				extraction.Items = category.Tag(extraction.Items, table)
				_, _ = fmt.Fprintln(out, cli.RenderExtraction(extraction))
				_, _ = fmt.Fprintln(out, cli.FormatInfo("Dry run: nothing was saved"))
				return nil
			}

			s, err := a.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer s.Close()

			outcome, err := s.assistant.ProcessReceipt(ctx, a.settings.UserID, input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, cli.RenderExtraction(outcome.Extraction))
			_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved %d item(s)", len(outcome.Purchases))))
			return nil
		},
	}

	cmd.Flags().Float64Var(&confidence, "confidence", 100, "OCR confidence of the text, 0-100")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the parsed receipt without saving it")

	return cmd
}

func (a *app) receiptListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent receipts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			receipts, err := store.GetReceipts(ctx, a.settings.UserID, limit)
			if err != nil {
				return fmt.Errorf("failed to get receipts: %w", err)
			}
			if len(receipts) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No receipts yet. Use 'smartshop receipt scan' to add one."))
				return nil
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), cli.RenderReceipts(receipts))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of receipts to show")

	return cmd
}
