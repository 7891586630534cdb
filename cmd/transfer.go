package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kubev2v/password-saver/internal/config"
	"github.com/kubev2v/password-saver/internal/services"
	"github.com/kubev2v/password-saver/pkg/export"
)

func NewExportCommand(cfg *config.Configuration) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every saved credential to a json, csv or xlsx file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			srv := services.NewCredentialService(cfg.Store)
			if output == "" || output == "-" {
				return srv.Export(cmd.Context(), cmd.OutOrStdout(), f)
			}
			if err := srv.ExportFile(cmd.Context(), output, f); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "Output format: json, csv or xlsx")
	cmd.Flags().StringVar(&output, "output", "", "Output file, standard output when empty or -")

	return cmd
}

func NewImportCommand(cfg *config.Configuration) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Save every credential of a json export, replacing existing sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", input, err)
				}
				defer f.Close()
				r = f
			}

			srv := services.NewCredentialService(cfg.Store)
			n, err := srv.Import(cmd.Context(), r)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Imported %d entries.\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "JSON export to read, standard input when empty or -")

	return cmd
}
