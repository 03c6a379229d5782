package validation

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

// Result is the outcome of a validation run. IsValid is true exactly when Errors is empty.
type Result struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

func newResult(errs map[string]string) Result {
	if errs == nil {
		errs = map[string]string{}
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// Scope keeps only the failures whose key is in fields.
func (r Result) Scope(fields []string) Result {
	scoped := make(map[string]string, len(fields))
	for _, field := range fields {
		if msg, ok := r.Errors[field]; ok {
			scoped[field] = msg
		}
	}
	return newResult(scoped)
}

// Fields returns the failing keys in lexical order.
func (r Result) Fields() []string {
	keys := make([]string, 0, len(r.Errors))
	for key := range r.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Err folds every failure into one error, or nil when valid.
func (r Result) Err() error {
	var err error
	for _, field := range r.Fields() {
		err = multierr.Append(err, fmt.Errorf("%s: %s", field, r.Errors[field]))
	}
	return err
}
