package query

import (
	"errors"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Collect appends err to the aggregate and keeps the flat "; " format used in
// responses and logs.
func Collect(result *multierror.Error, err error) *multierror.Error {
	result = multierror.Append(result, err)
	result.ErrorFormat = joinMessages
	return result
}

func joinMessages(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Messages flattens an aggregate error into its individual messages.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		msgs := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			msgs = append(msgs, Messages(e)...)
		}
		return msgs
	}
	return []string{err.Error()}
}
