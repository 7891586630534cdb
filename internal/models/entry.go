package models

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Entry is one saved credential, keyed by Site.
type Entry struct {
	Site     string `json:"site" validate:"required"`
	Username string `json:"username"`
	Secret   string `json:"password"`
}

// Validate checks the invariants the store relies on.
// Site must be non-empty; no trimming or case folding is applied.
func (e Entry) Validate() error {
	return validate.Struct(e)
}
