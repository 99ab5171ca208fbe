package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates the whole listing of a source failed.
	// Aborts only that municipality's run; retried on the next schedule.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrItemFetchFailed indicates a single item's detail fetch failed.
	// The item is skipped, never stored, and retried on the next run.
	ErrItemFetchFailed = errors.New("item fetch failed")

	// ErrAttachmentUnreadable indicates an attachment could not be turned
	// into text. Non-fatal: processing continues with the remaining text.
	ErrAttachmentUnreadable = errors.New("attachment unreadable")

	// ErrEnrichmentParse indicates the model output could not be parsed
	// into the profile schema after one repair attempt.
	ErrEnrichmentParse = errors.New("enrichment output unparseable")

	// ErrUnknownMunicipality indicates no adapter is registered for the
	// requested municipality.
	ErrUnknownMunicipality = errors.New("unknown municipality")

	// ErrRunInProgress indicates a sync for this municipality already
	// holds the run lock.
	ErrRunInProgress = errors.New("sync already in progress")
)
