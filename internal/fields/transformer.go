// Package fields turns the required fields of a service desk request type
// into the values submitted when a request is created.
package fields

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clintrovert/jts/pkg/types"
)

// ToolName is written in the description of every cloned request
const ToolName = "JTS"

// ErrNoDefaultValue is returned when a required field can't be given a value
var ErrNoDefaultValue = errors.New("field has no default value")

// FieldError names the required field that blocked the transformation
type FieldError struct {
	FieldID string
	Name    string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("required field %q (%s): %v", e.Name, e.FieldID, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Elaborate builds the value of every required field for a request cloned
// from source on behalf of username. Non-required fields are left out. The
// whole transformation fails on the first field without a value.
func Elaborate(required []types.RequiredField, source *types.Issue, username string) (map[string]any, error) {
	if source == nil {
		return nil, errors.New("source issue is nil")
	}

	values := make(map[string]any, len(required))
	for _, field := range required {
		if !field.Required {
			continue
		}

		switch KindOf(field.Name) {
		case KindParentIssue:
			values[field.FieldID] = source.Key
		case KindReferente:
			values[field.FieldID] = map[string]string{"name": username}
		case KindDescription:
			values[field.FieldID] = CloneDescription(source)
		case KindSummary:
			values[field.FieldID] = source.Summary
		default:
			value, err := defaultValue(field)
			if err != nil {
				return nil, err
			}
			values[field.FieldID] = value
		}
	}

	return values, nil
}

// CloneDescription prefixes the source description with its origin
func CloneDescription(source *types.Issue) string {
	return "Cloned from " + source.Key + " by " + ToolName + " \r\n\r\n " + source.Description
}

// defaultValue picks a value from the field definition alone. Array fields
// take every valid value by label, other fields the first machine value.
func defaultValue(field types.RequiredField) (any, error) {
	if field.Schema != nil && strings.EqualFold(field.Schema.Type, "array") {
		items := make([]map[string]string, 0, len(field.ValidValues))
		for _, v := range field.ValidValues {
			items = append(items, map[string]string{"name": v.Label})
		}
		return items, nil
	}

	if len(field.ValidValues) > 0 {
		return field.ValidValues[0].Value, nil
	}

	return nil, &FieldError{FieldID: field.FieldID, Name: field.Name, Err: ErrNoDefaultValue}
}
