package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kubev2v/password-saver/internal/config"
	"github.com/kubev2v/password-saver/internal/models"
	"github.com/kubev2v/password-saver/internal/services"
	srvErrors "github.com/kubev2v/password-saver/pkg/errors"
)

func NewAddCommand(cfg *config.Configuration) *cobra.Command {
	var entry models.Entry

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save the credentials of a website, replacing any previous ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry.Site = strings.TrimSpace(entry.Site)
			srv := services.NewCredentialService(cfg.Store)
			if err := srv.Add(cmd.Context(), entry); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Password for '%s' saved.\n", entry.Site)
			return nil
		},
	}

	cmd.Flags().StringVar(&entry.Site, "site", "", "Website address")
	cmd.Flags().StringVar(&entry.Username, "username", "", "Username used on the website")
	cmd.Flags().StringVar(&entry.Secret, "password", "", "Password used on the website")
	_ = cmd.MarkFlagRequired("site")

	return cmd
}

func NewGetCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "get SITE",
		Short: "Show the credentials saved for a website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := services.NewCredentialService(cfg.Store)
			entry, err := srv.Get(cmd.Context(), args[0])
			if err != nil {
				return noSuchEntry(err, args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Site: %s\nUsername: %s\nPassword: %s\n", entry.Site, entry.Username, entry.Secret)
			return nil
		},
	}
}

func NewListCommand(cfg *config.Configuration) *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved credentials ordered by site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := services.NewCredentialService(cfg.Store)
			entries, err := srv.List(cmd.Context(), expr)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				color.New(color.FgYellow).Fprintln(out, "No passwords stored yet.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "- %s: Username: %s, Password: %s\n", e.Site, e.Username, e.Secret)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&expr, "filter", "", "Filter expression, e.g. \"site ~ /bank/ and username = 'bob'\"")

	return cmd
}

func NewRemoveCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "remove SITE",
		Short: "Delete the credentials saved for a website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := services.NewCredentialService(cfg.Store)
			if err := srv.Remove(cmd.Context(), args[0]); err != nil {
				return noSuchEntry(err, args[0])
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Password for '%s' deleted.\n", args[0])
			return nil
		},
	}
}

func noSuchEntry(err error, site string) error {
	if srvErrors.IsResourceNotFoundError(err) {
		return fmt.Errorf("no such entry: %q", site)
	}
	return err
}
