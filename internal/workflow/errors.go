package workflow

import "errors"

var (
	ErrAcquireFailed   = errors.New("failed to acquire verification inputs")
	ErrSubmitFailed    = errors.New("failed to submit verification")
	ErrArtifactsFailed = errors.New("failed to retrieve verification artifacts")
	ErrReportFailed    = errors.New("failed to render verification report")
)
