package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var secretTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks the configuration against its struct tags. The secret_token
// rule enforces the character set the Bot API accepts for webhook secrets.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("secret_token", func(fl validator.FieldLevel) bool {
		return secretTokenPattern.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register secret_token validation: %w", err)
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
