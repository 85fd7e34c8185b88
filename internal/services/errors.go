package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreachable marks a collaborator that cannot be contacted at all.
	// The batch runner degrades the whole run to the offline fallback when it
	// sees this at startup.
	ErrUnreachable = errors.New("service unreachable")
	// ErrNotFound marks a lookup that completed but produced no result. Never
	// fatal; callers treat it the same as an empty candidate list.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks failures worth recording on the track without
	// aborting the run.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error carrying service and operation context, tagged with one
// of the sentinel errors above for classification.
func Wrap(marker error, service, operation, message string, err error) error {
	detail := buildDetail(service, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsUnreachable reports whether err indicates an unreachable collaborator.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

func buildDetail(service, operation, message string) string {
	parts := make([]string, 0, 3)
	if service = strings.TrimSpace(service); service != "" {
		parts = append(parts, service)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
