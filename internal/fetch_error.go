package internal

import (
	"errors"
	"fmt"
)

// FetchError signals a non-200 response or a transport failure for one page.
// A zero StatusCode means the request never got a response.
type FetchError struct {
	Url        string
	StatusCode int
	Cause      error
}

func NewFetchError(url string, statusCode int, cause error) *FetchError {
	return &FetchError{Url: url, StatusCode: statusCode, Cause: cause}
}

func (e FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetching '%s' failed: %v", e.Url, e.Cause)
	}

	return fmt.Sprintf("fetching '%s' failed with status %d", e.Url, e.StatusCode)
}

func (e FetchError) Unwrap() error {
	return e.Cause
}

func (e FetchError) Is(target error) bool {
	var t *FetchError
	ok := errors.As(target, &t)
	return ok
}
