// AniRec - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anirec

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration for structural errors. Weight values
// are deliberately unvalidated: they are policy knobs and negative or
// oversized weights are a caller decision, not a config error.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if ok := asValidationErrors(err, &errs); ok && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("invalid value for %s (%s=%v)", first.Namespace(), first.Tag(), first.Value())
		}
		return err
	}

	if c.Recommend.Results > c.Recommend.MaxResults {
		return fmt.Errorf("recommend.results (%d) exceeds recommend.max_results (%d)",
			c.Recommend.Results, c.Recommend.MaxResults)
	}

	return nil
}

// asValidationErrors unwraps validator.ValidationErrors from err.
func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if errs, ok := err.(validator.ValidationErrors); ok { //nolint:errorlint // validator returns this concrete type
		*target = errs
		return true
	}
	return false
}
