package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":    "{field} is required",
		"gt":          "{field} must be greater than {param}",
		"gte":         "{field} must be greater than or equal to {param}",
		"lte":         "{field} must be less than or equal to {param}",
		"oneof":       "{field} must be one of {param}",
		"max":         "{field} must be less than or equal to {param}",
		"min":         "{field} must be greater than or equal to {param}",
		"email":       "{field} must be a valid email address",
		"eqfield":     "{field} must match {param}",
		"datetime":    "{field} must match the format {param}",
		"uuid":        "{field} must be a valid UUID",
		"imagetype":   "{field} must be an image",
		"maxfilesize": "{field} must not exceed {param} MB",
		"money":       "{field} must be a non-negative amount below 10000000000 with at most 2 decimal places",
		"count":       "{field} must be a whole number from 0 to 2147483647",
	}

	// length constraints read differently on text
	stringMessages = map[string]string{
		"max": "{field} must be at most {param} characters",
		"min": "{field} must be at least {param} characters",
	}
)

// message describes the first violation it has wording for. oneof lists its options comma separated.
func message(err error) string {
	var violations val.ValidationErrors
	if !errors.As(err, &violations) {
		return err.Error()
	}

	for _, violation := range violations {
		template, ok := lookup(violation.Tag(), violation.Kind())
		if !ok {
			continue
		}

		param := violation.Param()
		if violation.Tag() == "oneof" {
			param = strings.Join(strings.Fields(param), ", ")
		}

		return strings.NewReplacer("{field}", violation.Field(), "{param}", param).Replace(template)
	}

	return violations.Error()
}

func lookup(tag string, kind reflect.Kind) (string, bool) {
	if kind == reflect.String {
		if template, ok := stringMessages[tag]; ok {
			return template, true
		}
	}

	template, ok := messages[tag]

	return template, ok
}
