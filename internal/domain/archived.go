package domain

// Archived represents a stored, encrypted blob. Once written it is
// immutable: a blob's hash is set the instant it is created and never
// changed, except for the poison-tombstone case where a failed upload
// clears it to the empty string forever.
//
// Archived.ID is the object key inside the storage backend and must never
// be reused, even for a poisoned record.
type Archived struct {
	ID   int64
	Hash string // hex sha256 of plaintext, 64 chars; "" marks a poison tombstone
	Size int64  // plaintext byte count
}

// Poisoned reports whether this Archived row is a tombstone left behind by
// a failed upload. Its id must never be reused.
func (a *Archived) Poisoned() bool {
	return a.Hash == ""
}
