package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kubev2v/password-saver/internal/config"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// flagNames maps configuration fields back to the flag that sets them.
var flagNames = map[string]string{
	"Configuration.Store.DataFolder": "data-folder",
	"Configuration.Store.File":       "store-file",
	"Configuration.Store.Driver":     "store-driver",
	"Configuration.Log.Level":        "log-level",
	"Configuration.Log.Format":       "log-format",
}

func validateConfiguration(cfg *config.Configuration) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	name, ok := flagNames[fe.StructNamespace()]
	if !ok {
		name = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be empty", name)
	case "oneof":
		return fmt.Sprintf("invalid %s %q: must be one of %s", name, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("invalid %s", name)
	}
}
