package swupdate

import "codeberg.org/vintr/updatemon/internal/errors"

const (
	// Precondition Errors
	ErrNoReader  = errors.ErrorCode("swupdate_no_reader")
	ErrNoScanner = errors.ErrorCode("swupdate_no_scanner")
	ErrNoSink    = errors.ErrorCode("swupdate_no_sink")

	// Native Errors
	ErrPreferencesFailed = errors.ErrorCode("swupdate_preferences_failed")

	// Operation Errors
	ErrCollectCancelled = errors.ErrorCode("swupdate_collect_cancelled")

	// ErrScanPartial marks a scan that failed mid-stream: rows already
	// pushed to the sink stand, the remainder is lost.
	ErrScanPartial = errors.ErrorCode("swupdate_scan_partial")
)
