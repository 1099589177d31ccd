// Package serac holds error sentinels shared across the archive engine.
package serac

import "errors"

// Error taxonomy for the archive engine. Every core error is one of these
// sentinels, or wraps one via fmt.Errorf("...: %w", err).
var (
	// ErrArchiveUnavailable is the generic supertype for temporary backend
	// unavailability. The sentinels themselves are independent; the S3
	// availability check returns errors that wrap ErrArchiveUnavailable
	// together with ErrObjectFrozen or ErrObjectRetrieving, so errors.Is
	// matches either.
	ErrArchiveUnavailable = errors.New("archive unavailable")

	// ErrObjectFrozen indicates an S3 object in Glacier with no thaw in
	// progress; a thaw has just been requested.
	ErrObjectFrozen = errors.New("object frozen")

	// ErrObjectRetrieving indicates an S3 thaw already in progress.
	ErrObjectRetrieving = errors.New("object retrieving")

	// ErrFileExists indicates a restore target already exists on disk.
	ErrFileExists = errors.New("file exists")

	// ErrNotFound indicates a pattern matched no files in the requested state.
	ErrNotFound = errors.New("not found")

	// ErrArchiveEmpty indicates no pattern was supplied and the state is empty.
	ErrArchiveEmpty = errors.New("archive empty")

	// ErrBadTimestamp indicates a non-integer timestamp was supplied where
	// an integer POSIX timestamp is required.
	ErrBadTimestamp = errors.New("bad timestamp")

	// ErrAlreadyArchived indicates an attempt to archive a File that
	// already has a persisted id.
	ErrAlreadyArchived = errors.New("already archived")

	// ErrDatabaseMissing indicates connect was attempted on a non-existent index.
	ErrDatabaseMissing = errors.New("database missing")

	// ErrDatabaseExists indicates create was attempted on an existing index.
	ErrDatabaseExists = errors.New("database exists")

	// ErrBusy indicates another process holds the config file lock.
	ErrBusy = errors.New("busy")

	// ErrArchiveFailed wraps an underlying I/O or crypto error from store().
	ErrArchiveFailed = errors.New("archive failed")

	// ErrWrongPassword indicates an HMAC/MAC mismatch during decrypt.
	ErrWrongPassword = errors.New("wrong password")

	// ErrTruncated indicates the ciphertext stream ended before src_size
	// bytes were consumed.
	ErrTruncated = errors.New("truncated")

	// ErrNotAFile indicates a scanned path exists but is not a regular file.
	ErrNotAFile = errors.New("not a regular file")

	// ErrNotFoundOnDisk indicates a path does not exist when metadata was
	// expected to be refreshed from disk.
	ErrNotFoundOnDisk = errors.New("path not found")
)
