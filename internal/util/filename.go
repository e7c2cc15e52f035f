// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers for download filename
// sanitization and filesystem path containment.
package util

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// unsafeFilenameChars matches everything outside the ASCII-safe set kept in
// download filenames.
var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// sanitizeNamePart strips accents and unsafe characters from one name
// component so the result is safe inside a Content-Disposition header.
func sanitizeNamePart(s string) string {
	// Normalize unicode characters (decompose accents)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ReplaceAll(result, " ", "_")
	return unsafeFilenameChars.ReplaceAllString(result, "")
}

// ResumeDownloadName builds the user-facing résumé filename from the
// student's name, e.g. "CV_Anna_Rossi.pdf".
func ResumeDownloadName(firstName, lastName string) string {
	first := sanitizeNamePart(firstName)
	last := sanitizeNamePart(lastName)

	name := strings.Trim(strings.Join([]string{"CV", first, last}, "_"), "_")
	name = strings.ReplaceAll(name, "__", "_")
	return fmt.Sprintf("%s.pdf", name)
}
