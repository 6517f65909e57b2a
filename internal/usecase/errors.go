package usecase

import crerr "github.com/cockroachdb/errors"

var (
	ErrStepFailed  = crerr.New("pipeline step failed")
	ErrInterrupted = crerr.New("pipeline interrupted")
	ErrFetchFailed = crerr.New("fetch failed")
)
