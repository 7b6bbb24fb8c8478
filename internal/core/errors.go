package core

import "errors"

var (
	ErrSubmissionFailed   = errors.New("submission failed")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrHistoryFetchFailed = errors.New("history fetch failed")
	ErrStorageWrite       = errors.New("storage write failed")
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
)

// SubmissionFailedMessage is shown to the user when a submission fails.
const SubmissionFailedMessage = "failed to submit question, please try again later"
