package config

import (
	"fmt"
	"strings"

	"agentflow/internal/auth"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// HasErrors reports whether any validation error was collected.
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Validate checks the configuration for structural problems: bad server
// settings, duplicate credential names, and credentials whose auth config
// fails auth.ValidateConfig.
func Validate(cfg AgentFlowConfig) ValidationErrors {
	var errs ValidationErrors

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port %d is out of range", cfg.Server.Port),
		})
	}
	if cfg.Auth.TokenRequestTimeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "auth.tokenRequestTimeout",
			Message: "timeout must not be negative",
		})
	}

	seen := make(map[string]struct{})
	for i, spec := range cfg.Credentials {
		field := fmt.Sprintf("credentials[%d]", i)

		if spec.Name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "credential name is required"})
		} else if _, dup := seen[spec.Name]; dup {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate credential name %q", spec.Name),
			})
		} else {
			seen[spec.Name] = struct{}{}
		}

		authCfg, err := spec.ToAuthConfig()
		if err != nil {
			errs = append(errs, ValidationError{Field: field + ".scheme", Message: err.Error()})
			continue
		}
		for _, problem := range auth.ValidateConfig(authCfg) {
			errs = append(errs, ValidationError{Field: field, Message: problem})
		}
	}

	return errs
}
