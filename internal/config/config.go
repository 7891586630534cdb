package config

import "path/filepath"

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.options.go . Configuration

type Configuration struct {
	Store Store `debugmap:"visible"`
	Log   Log   `debugmap:"visible"`
}

type Store struct {
	DataFolder string `default:"." validate:"required"`
	File       string `default:"passwords.db" validate:"required"`
	Driver     string `default:"duckdb" validate:"oneof=duckdb sqlite"`
}

// Path is the backing file the credential store opens.
func (s Store) Path() string {
	return filepath.Join(s.DataFolder, s.File)
}

type Log struct {
	Level  string `default:"warn" validate:"oneof=debug info warn error"`
	Format string `default:"console" validate:"oneof=console json"`
}
