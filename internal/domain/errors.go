package domain

import "errors"

var (
	// ErrPickerUnavailable signals that the primary picking strategy is
	// unsupported or failed. Callers fall back to the legacy strategy;
	// this is never surfaced to the user as an error.
	ErrPickerUnavailable = errors.New("picker unavailable")

	// ErrHandleDenied signals that a capability handle could not be
	// re-read. Callers fall back to the blob store.
	ErrHandleDenied = errors.New("handle access denied")

	// ErrContentUnavailable means neither the handle nor the blob store
	// could produce the track's content. The track must be re-imported.
	ErrContentUnavailable = errors.New("content unavailable, re-import the track")

	// ErrBlobNotFound is returned by the blob store for an unknown ID.
	ErrBlobNotFound = errors.New("blob not found")
)
