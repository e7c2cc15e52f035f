// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/cvdesk-go/internal/store"
	"github.com/olegiv/cvdesk-go/internal/util"
)

// Upload limits
const (
	MaxResumeSize = 5 * 1024 * 1024 // 5MB
	resumeSubdir  = "cv"
	pdfMimeType   = "application/pdf"
)

// ResumeService stores and serves résumé PDF artifacts. Each student holds
// at most one artifact; uploads replace the previous file.
type ResumeService struct {
	queries    *store.Queries
	uploadsDir string
}

// NewResumeService creates a new ResumeService rooted at uploadsDir.
func NewResumeService(db *sql.DB, uploadsDir string) *ResumeService {
	return &ResumeService{
		queries:    store.New(db),
		uploadsDir: uploadsDir,
	}
}

// Upload validates and stores a new résumé for the user. The new artifact
// is written and referenced before the old one is removed, so a crash never
// leaves the profile pointing at a missing file.
func (s *ResumeService) Upload(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) error {
	if header.Size > MaxResumeSize {
		return ErrFileTooLarge
	}

	// Sniff the real content type; the client-supplied header and the
	// file extension are both untrusted.
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return &StorageError{Op: "read", Err: err}
	}
	if http.DetectContentType(buf[:n]) != pdfMimeType {
		return ErrInvalidFileType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return &StorageError{Op: "seek", Err: err}
	}

	profile, err := s.queries.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("loading profile: %w", err)
	}

	relPath := filepath.Join(resumeSubdir, uuid.New().String()+".pdf")
	absPath := filepath.Join(s.uploadsDir, relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return &StorageError{Op: "mkdir", Err: err}
	}

	out, err := os.Create(absPath)
	if err != nil {
		return &StorageError{Op: "create", Err: err}
	}

	// The size header is client-supplied; enforce the cap on actual bytes.
	written, err := io.Copy(out, io.LimitReader(file, MaxResumeSize+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(absPath)
		return &StorageError{Op: "write", Err: err}
	}
	if written > MaxResumeSize {
		_ = os.Remove(absPath)
		return ErrFileTooLarge
	}

	if err := s.queries.UpdateResumeRef(ctx, store.UpdateResumeRefParams{
		ResumePath:       sql.NullString{String: relPath, Valid: true},
		ResumeUploadedAt: sql.NullTime{Time: time.Now(), Valid: true},
		UserID:           userID,
	}); err != nil {
		_ = os.Remove(absPath)
		return fmt.Errorf("updating resume reference: %w", err)
	}

	// Old artifact is unreferenced now; removal failure only leaves an
	// orphan for the janitor to sweep.
	if profile.HasResume() {
		oldPath := filepath.Join(s.uploadsDir, profile.ResumePath.String)
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove replaced resume", "path", oldPath, "error", err)
		}
	}

	return nil
}

// Download bundles an open résumé file with its serving metadata.
type Download struct {
	File     *os.File
	Filename string
	Size     int64
}

// Close releases the underlying file.
func (d *Download) Close() error {
	return d.File.Close()
}

// Open returns the user's résumé ready for serving, named after the
// student (CV_First_Last.pdf). Returns ErrNoResume if none is on file.
func (s *ResumeService) Open(ctx context.Context, userID int64) (*Download, error) {
	user, err := s.queries.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	profile, err := s.queries.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if !profile.HasResume() {
		return nil, ErrNoResume
	}

	// The stored path comes from the database; keep it contained in case
	// the reference was tampered with.
	absPath := filepath.Join(s.uploadsDir, profile.ResumePath.String)
	if err := util.ValidatePathWithinBase(s.uploadsDir, absPath); err != nil {
		return nil, &StorageError{Op: "validate", Err: err}
	}

	f, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Reference without a file: treat as missing rather than a
			// server fault so the student can simply re-upload.
			return nil, ErrNoResume
		}
		return nil, &StorageError{Op: "open", Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &StorageError{Op: "stat", Err: err}
	}

	return &Download{
		File:     f,
		Filename: util.ResumeDownloadName(user.FirstName, user.LastName),
		Size:     info.Size(),
	}, nil
}

// OpenStudent is the admin variant of Open: it resolves student accounts
// only, keeping the read-only exception scoped to student résumés.
func (s *ResumeService) OpenStudent(ctx context.Context, studentID int64) (*Download, error) {
	if _, err := s.queries.GetStudentByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading student: %w", err)
	}
	return s.Open(ctx, studentID)
}

// OrphanedResumes returns files under the résumé directory that no profile
// references. Used by the janitor.
func (s *ResumeService) OrphanedResumes(ctx context.Context) ([]string, error) {
	referenced, err := s.queries.ListResumePaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing resume references: %w", err)
	}
	refSet := make(map[string]bool, len(referenced))
	for _, p := range referenced {
		refSet[filepath.Join(s.uploadsDir, p)] = true
	}

	dir := filepath.Join(s.uploadsDir, resumeSubdir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Op: "readdir", Err: err}
	}

	var orphans []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !refSet[path] {
			orphans = append(orphans, path)
		}
	}
	return orphans, nil
}

// RemoveOrphanedResumes deletes unreferenced résumé files and returns how
// many were removed.
func (s *ResumeService) RemoveOrphanedResumes(ctx context.Context) (int, error) {
	orphans, err := s.OrphanedResumes(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range orphans {
		if err := os.Remove(path); err != nil {
			slog.Warn("failed to remove orphaned resume", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
