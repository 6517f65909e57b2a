package usecase

type FetchStatus string

const (
	// FetchStatusOK means records were fetched; WriteErr tells whether they reached disk.
	FetchStatusOK FetchStatus = "ok"
	// FetchStatusEmpty means the provider answered but had nothing to return.
	FetchStatusEmpty FetchStatus = "empty"
	// FetchStatusFailed means the provider call or its payload was unusable.
	FetchStatusFailed FetchStatus = "failed"
)

// FetchResult separates "zero records today" from "the fetch failed", which
// both surface as an empty record set.
type FetchResult[T any] struct {
	Records  []T
	Status   FetchStatus
	Err      error
	RunDir   string
	Path     string
	WriteErr error
}

func (r FetchResult[T]) Failed() bool {
	return r.Status == FetchStatusFailed
}

func emptyFetch[T any](status FetchStatus, err error) FetchResult[T] {
	return FetchResult[T]{
		Records: []T{},
		Status:  status,
		Err:     err,
	}
}
