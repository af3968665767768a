// Package jsonpatch implements an explicit interpreter for JSON-Patch
// style documents (RFC 6902 operation kinds) applied to flat,
// string-valued targets. Operations are validated against the target's
// field set and errors are accumulated per operation instead of
// failing fast, so a caller can report every inapplicable operation
// at once.
package jsonpatch

import (
	"fmt"
	"strings"
)

// Operation kinds understood by the interpreter.
const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
	OpMove    = "move"
	OpCopy    = "copy"
	OpTest    = "test"
)

// Operation is a single tagged edit: an op kind, a target path and,
// depending on the kind, a value or a source path.
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	From  string `json:"from,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Document is an ordered sequence of operations.
type Document []Operation

// Target is a flat object a Document can be applied to. All methods
// report whether the field belongs to the target's field set.
type Target interface {
	// Get returns the current value of the field.
	Get(field string) (value string, ok bool)
	// Set assigns the field.
	Set(field, value string) (ok bool)
	// Clear resets the field to its zero value.
	Clear(field string) (ok bool)
}

// Errors maps a field name to the messages of every operation that
// failed against it.
type Errors map[string][]string

func (e Errors) add(field, message string) {
	e[field] = append(e[field], message)
}

// Apply interprets the document against the target in order. The
// target is mutated in place; failed operations leave it untouched
// and contribute a message to the returned error map. An empty map
// means every operation applied.
func Apply(doc Document, target Target) Errors {
	errs := make(Errors)

	for _, op := range doc {
		applyOne(op, target, errs)
	}

	return errs
}

func applyOne(op Operation, target Target, errs Errors) {
	field := fieldOf(op.Path)
	if field == "" {
		errs.add("path", fmt.Sprintf("%s operation failed: missing path", kindOf(op)))
		return
	}

	switch op.Op {
	case OpAdd, OpReplace:
		value, ok := stringValue(op.Value)
		if !ok {
			errs.add(field, fmt.Sprintf("%s operation failed: value for %q must be a string", op.Op, field))
			return
		}
		if !target.Set(field, value) {
			errs.add(field, fmt.Sprintf("%s operation failed: unknown field %q", op.Op, field))
		}

	case OpRemove:
		if !target.Clear(field) {
			errs.add(field, fmt.Sprintf("remove operation failed: unknown field %q", field))
		}

	case OpMove, OpCopy:
		from := fieldOf(op.From)
		if from == "" {
			errs.add(field, fmt.Sprintf("%s operation failed: missing from path", op.Op))
			return
		}
		value, ok := target.Get(from)
		if !ok {
			errs.add(from, fmt.Sprintf("%s operation failed: unknown field %q", op.Op, from))
			return
		}
		if !target.Set(field, value) {
			errs.add(field, fmt.Sprintf("%s operation failed: unknown field %q", op.Op, field))
			return
		}
		if op.Op == OpMove {
			target.Clear(from)
		}

	case OpTest:
		current, ok := target.Get(field)
		if !ok {
			errs.add(field, fmt.Sprintf("test operation failed: unknown field %q", field))
			return
		}
		expected, ok := stringValue(op.Value)
		if !ok {
			errs.add(field, fmt.Sprintf("test operation failed: value for %q must be a string", field))
			return
		}
		if current != expected {
			errs.add(field, fmt.Sprintf("test operation failed: field %q does not match", field))
		}

	default:
		errs.add(field, fmt.Sprintf("unsupported operation %q", op.Op))
	}
}

// fieldOf resolves a JSON-Pointer style path to a flat field name.
func fieldOf(path string) string {
	return strings.TrimPrefix(strings.TrimSpace(path), "/")
}

func kindOf(op Operation) string {
	if op.Op == "" {
		return "patch"
	}
	return op.Op
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
