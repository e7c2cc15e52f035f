// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the business logic between handlers and the
// store: account registration and login, profile and experience editing,
// and résumé artifact handling.
package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the service layer. Handlers map these to
// user-facing messages and status codes.
var (
	// ErrDuplicateEmail means the email is already registered, compared
	// case-insensitively.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound means the requested record does not exist or does not
	// belong to the caller. The two cases are deliberately merged.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden means the caller's role does not permit the operation.
	ErrForbidden = errors.New("operation not permitted")

	// ErrInvalidFileType means the uploaded file is not a PDF.
	ErrInvalidFileType = errors.New("file must be a PDF")

	// ErrFileTooLarge means the uploaded file exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")

	// ErrNoResume means no résumé artifact is on file for the user.
	ErrNoResume = errors.New("no resume on file")
)

// ValidationError aggregates all field-level failures found in one request
// so the form can show every problem at once.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NewValidationError wraps a non-empty message list; returns nil otherwise.
func NewValidationError(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}

// AsValidationError extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// StorageError wraps filesystem failures during résumé handling so handlers
// can report them without leaking paths.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("resume storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
