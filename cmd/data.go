package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/domain"
)

func newExportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "export",
		Short: "Export items, attempts and error tags as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, _ := cmd.Flags().GetString("out")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			payload, err := a.Transfer.Export(cmd.Context(), time.Now())
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				_, err := payload.WriteTo(cmd.OutOrStdout())
				return err
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			if _, err := payload.WriteTo(f); err != nil {
				f.Close()
				return fmt.Errorf("write export: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d items and %d attempts to %s\n",
				len(payload.Data.Items), len(payload.Data.Attempts), outPath)
			return nil
		},
	}
	c.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
	return c
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace items, attempts and error tags from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			res, err := a.Transfer.Import(cmd.Context(), raw)
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				out := cmd.ErrOrStderr()
				fmt.Fprintln(out, "Import rejected, existing data left untouched:")
				for _, fe := range verr.Errors {
					fmt.Fprintf(out, "  %s: %s\n", fe.Field, fe.Message)
				}
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items, %d attempts and %d error tags\n",
				res.Items, res.Attempts, res.ErrorTags)
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "reset",
		Short: "Delete all items, attempts, streaks, challenges and badges",
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "This deletes all study data. Type 'yes' to continue: ")
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			if err := a.ResetAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All study data deleted.")
			return nil
		},
	}
	c.Flags().Bool("yes", false, "Skip the confirmation prompt")
	return c
}
