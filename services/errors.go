package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUploadFailed  = errors.New("receipt upload failed")
	ErrRecordFailed  = errors.New("order could not be recorded")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrInvalidRow    = errors.New("invalid order row")
	ErrStoreFailed   = errors.New("order store unavailable")
)

// ValidationError lists the rejected fields of a submission with a message
// for each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = e.Fields[k]
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
}
