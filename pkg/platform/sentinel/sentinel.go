package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and backends return these
// (optionally wrapped) so services can tell "nothing stored yet" apart from
// "storage is broken":
// - ErrNotFound: no record exists for the key
// - ErrCorrupt: a stored payload could not be decoded
// - ErrUnavailable: the backend is temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrCorrupt     = errors.New("corrupt record")
	ErrUnavailable = errors.New("unavailable")
)
