package main

import (
	"context"
	"os"

	"github.com/fatih/color"

	"github.com/kubev2v/password-saver/cmd"
	"github.com/kubev2v/password-saver/internal/config"
)

func main() {
	cfg := config.NewConfigurationWithOptionsAndDefaults()

	root := cmd.NewRootCommand(cfg)
	if err := root.ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
