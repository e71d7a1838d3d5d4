package fetcher

import "errors"

var (
	// ErrInvalidURL indicates the URL is malformed or uses a disallowed scheme.
	ErrInvalidURL = errors.New("invalid url")

	// ErrPrivateIP indicates the hostname resolves to a private address.
	ErrPrivateIP = errors.New("url resolves to private ip")

	// ErrTooManyRedirects indicates the redirect limit was exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("content fetch timeout")

	// ErrExtractFailed indicates no readable article content was found.
	ErrExtractFailed = errors.New("content extraction failed")
)
