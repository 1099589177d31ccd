package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/prn-tf/serac/internal/serac"
)

// hashBlockSize is the fixed read buffer for CalculateHash, matching the
// reference implementation's 64 KiB blocking.
const hashBlockSize = 64 * 1024

// File is one row of the append-only event log: one observed state of a
// path. File rows are inserted during commit and are never updated or
// deleted.
type File struct {
	ID int64 // 0 until persisted

	Path       string
	ArchivedID int64 // required for ADD/CONTENT/METADATA; last known Archived for DELETE
	Action     Action

	LastModified int64 // integer POSIX seconds
	Owner        uint32
	Group        uint32
	Permissions  uint32

	cachedHash string
}

// Persisted reports whether this File has already been assigned a
// database id.
func (f *File) Persisted() bool {
	return f.ID != 0
}

// RefreshMetadataFromDisk stats f.Path and populates LastModified, Owner,
// Group and Permissions. Fails with serac.ErrNotFoundOnDisk if the path
// does not exist, serac.ErrNotAFile if it exists but is not a regular
// file.
func (f *File) RefreshMetadataFromDisk() error {
	info, err := os.Stat(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return serac.ErrNotFoundOnDisk
		}
		return fmt.Errorf("stat %s: %w", f.Path, err)
	}
	if !info.Mode().IsRegular() {
		return serac.ErrNotAFile
	}

	owner, group, err := platformOwnerGroup(info)
	if err != nil {
		return err
	}

	f.LastModified = info.ModTime().Unix()
	f.Owner = owner
	f.Group = group
	f.Permissions = uint32(info.Mode().Perm())
	return nil
}

// CalculateHash streams f.Path through sha256 in fixed blocks and
// memoizes the result on the instance. It does not lock against
// concurrent filesystem modification: if the file changes mid-read, the
// hash reflects whatever bytes were actually read.
func (f *File) CalculateHash() (string, error) {
	if f.cachedHash != "" {
		return f.cachedHash, nil
	}

	fh, err := os.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer fh.Close()

	h := sha256.New()
	buf := make([]byte, hashBlockSize)
	if _, err := io.CopyBuffer(h, fh, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", f.Path, err)
	}

	f.cachedHash = hex.EncodeToString(h.Sum(nil))
	return f.cachedHash, nil
}

// MetadataEqual reports whether two Files have the same path and the
// same last_modified/owner/group/permissions. Content hash is
// deliberately excluded: it is a deeper check the differ performs only
// when metadata already differs.
func (f *File) MetadataEqual(other *File) bool {
	return f.Path == other.Path &&
		f.LastModified == other.LastModified &&
		f.Owner == other.Owner &&
		f.Group == other.Group &&
		f.Permissions == other.Permissions
}

// Clone returns a shallow copy of f suitable for mutating into a new
// event (e.g. a DELETE row derived from the last known state).
func (f *File) Clone() *File {
	cp := *f
	return &cp
}
