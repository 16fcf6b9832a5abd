package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Task is the domain model for a single task list entry.
// The "task" JSON name matches snapshots written by earlier versions.
type Task struct {
	Key  string `json:"key" yaml:"key"`
	Text string `json:"task" yaml:"text"`
}

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports user input that cannot become a task.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ValidateText rejects empty and whitespace-only text.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "text", Reason: "cannot be empty"}
	}
	return nil
}

// KeyFunc derives the identity key for a new task.
type KeyFunc func(text string) string

// UUIDKey gives every task its own random identity, independent of its text.
func UUIDKey(string) string { return uuid.NewString() }

// TextKey binds identity to content: tasks with the same text share a key.
// The key is the text itself.
func TextKey(text string) string { return text }

// NormalizeText puts text in Unicode NFC form, so visually identical input
// is stored, and keyed, identically.
func NormalizeText(text string) string { return norm.NFC.String(text) }

// SameKey compares keys in NFC form, so a typed key matches its stored one.
func SameKey(a, b string) bool {
	return a == b || norm.NFC.String(a) == norm.NFC.String(b)
}

// Identity resolves a configured identity scheme name ("uuid" or "text").
func Identity(name string) (KeyFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "uuid":
		return UUIDKey, nil
	case "text":
		return TextKey, nil
	}
	return nil, &ValidationError{Field: "identity", Reason: "unknown scheme " + `"` + name + `"`}
}

// Clone returns an independent copy of tasks. It never returns nil.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
