package schema

import (
	"sort"
)

// Schema is a map of field names to their expected types.
type Schema map[string]Type

// Validate checks that every schema field is present in data and conforms to
// its type. All failures are returned together in an AggregateError.
func Validate(schema Schema, data map[string]any) error {
	return validate(schema, data, false, false)
}

// ValidateStrict is like Validate but also rejects keys the schema does not
// define.
func ValidateStrict(schema Schema, data map[string]any) error {
	return validate(schema, data, true, false)
}

// ValidatePartial checks only the schema fields present in data. Absent and
// null fields are skipped and unknown keys are ignored.
func ValidatePartial(schema Schema, data map[string]any) error {
	return validate(schema, data, false, true)
}

func validate(schema Schema, data map[string]any, strict, partial bool) error {
	var errs []error

	for _, fieldName := range sortedKeys(schema) {
		value, exists := data[fieldName]
		if !exists || value == nil {
			if partial {
				continue
			}
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "required",
			})
			continue
		}

		if err := schema[fieldName].Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if strict {
		extra := make([]string, 0)
		for key := range data {
			if _, known := schema[key]; !known {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)
		for _, key := range extra {
			errs = append(errs, &ValidationError{
				Key:    key,
				Reason: "unknown field",
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func sortedKeys(schema Schema) []string {
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
