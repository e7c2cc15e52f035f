// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "unicode"

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidatePassword checks a candidate password against the registration
// policy and returns one message per violated rule. The policy requires
// at least MinPasswordLength characters, one uppercase letter, one
// lowercase letter, and one digit; the confirmation must match exactly.
func ValidatePassword(password, confirm string) []string {
	var errs []string

	if len(password) < MinPasswordLength {
		errs = append(errs, "Password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "Password must contain at least one digit")
	}
	if password != confirm {
		errs = append(errs, "Passwords do not match")
	}

	return errs
}
