package cmd

import (
	"os"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kubev2v/password-saver/internal/config"
	"github.com/kubev2v/password-saver/internal/menu"
	"github.com/kubev2v/password-saver/internal/services"
)

const envPrefix = "PASSWORD_SAVER"

// NewRootCommand builds the password-saver command tree. Without a
// subcommand it starts the interactive menu.
func NewRootCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "password-saver",
		Short:         "Keep a list of website credentials in a local file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			viper.AutomaticEnv()
			viper.SetEnvPrefix(envPrefix)
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			cobraflags.PresetRequiredFlags(envPrefix, make(map[*pflag.Flag]bool), cmd)

			if err := validateConfiguration(cfg); err != nil {
				return err
			}

			logger, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)
			zap.S().Named("cmd").Debugw("configuration", "config", cfg.DebugMap())

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := services.NewCredentialService(cfg.Store)
			m := menu.NewMenu(srv, cmd.InOrStdin(), cmd.OutOrStdout(), menu.WithSecretReader(secretReader(cmd)))
			return m.Run(cmd.Context())
		},
	}

	registerFlags(cmd, cfg)

	cmd.AddCommand(
		NewAddCommand(cfg),
		NewGetCommand(cfg),
		NewListCommand(cfg),
		NewRemoveCommand(cfg),
		NewExportCommand(cfg),
		NewImportCommand(cfg),
	)

	return cmd
}

func registerFlags(cmd *cobra.Command, cfg *config.Configuration) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&cfg.Store.DataFolder, "data-folder", cfg.Store.DataFolder, "Folder holding the password store")
	flags.StringVar(&cfg.Store.File, "store-file", cfg.Store.File, "Name of the password store file inside the data folder")
	flags.StringVar(&cfg.Store.Driver, "store-driver", cfg.Store.Driver, "Storage engine: duckdb or sqlite")
	flags.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level: debug, info, warn or error")
	flags.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format: console or json")
}

// secretReader hides typed passwords only when the menu reads the real terminal.
func secretReader(cmd *cobra.Command) menu.SecretReader {
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		return menu.TerminalSecretReader(f)
	}
	return nil
}

// newLogger writes to stderr so log lines never mix with command output.
func newLogger(cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = cfg.Format
	zcfg.DisableStacktrace = true
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build()
}
