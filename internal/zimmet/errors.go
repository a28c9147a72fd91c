package zimmet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind is the machine-readable classification of an engine failure.
type Kind string

const (
	KindUnavailable      Kind = "unavailable"
	KindInvalidState     Kind = "invalid_state"
	KindCrossHolderBatch Kind = "cross_holder_batch"
	KindNotFound         Kind = "not_found"
	KindDuplicateKey     Kind = "duplicate_key"
	KindTransactional    Kind = "transactional"
)

// Error carries a kind plus the identifiers of the records that caused a
// rejection, so multi-item batches can report exactly which member failed.
type Error struct {
	Kind          Kind
	Message       string
	ItemIDs       []uuid.UUID
	AssignmentIDs []uuid.UUID
	Field         string
}

func (e *Error) Error() string { return e.Message }

// KindOf extracts the kind from err, or "" when err did not originate from
// the engine. Transactional failures are safely retryable: validation runs
// before any write and commits are all-or-nothing.
func KindOf(err error) Kind {
	var ze *Error
	if errors.As(err, &ze) {
		return ze.Kind
	}
	return ""
}

func errUnavailable(itemIDs []uuid.UUID) *Error {
	return &Error{
		Kind:    KindUnavailable,
		Message: fmt.Sprintf("item(s) not available: %s", joinIDs(itemIDs)),
		ItemIDs: itemIDs,
	}
}

func errNotFound(what string, ids ...uuid.UUID) *Error {
	msg := what + " not found"
	if len(ids) > 0 {
		msg = fmt.Sprintf("%s not found: %s", what, joinIDs(ids))
	}
	return &Error{Kind: KindNotFound, Message: msg}
}

func errInvalidState(msg string, assignmentIDs ...uuid.UUID) *Error {
	return &Error{Kind: KindInvalidState, Message: msg, AssignmentIDs: assignmentIDs}
}

func errCrossHolder(assignmentIDs []uuid.UUID) *Error {
	return &Error{
		Kind:          KindCrossHolderBatch,
		Message:       "bulk return spans more than one holder",
		AssignmentIDs: assignmentIDs,
	}
}

func errDuplicateKey(field string) *Error {
	return &Error{
		Kind:    KindDuplicateKey,
		Message: fmt.Sprintf("duplicate value for %s", field),
		Field:   field,
	}
}

func errTransactional(op string, err error) *Error {
	return &Error{
		Kind:    KindTransactional,
		Message: fmt.Sprintf("%s: commit failed: %v", op, err),
	}
}

// wrapTxErr passes engine errors through untouched and classifies everything
// else as a transactional failure.
func wrapTxErr(op string, err error) error {
	var ze *Error
	if errors.As(err, &ze) {
		return ze
	}
	return errTransactional(op, err)
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ", ")
}
