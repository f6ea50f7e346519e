// Package apierr classifies failed upstream calls into the two error kinds
// that cross the host boundary: the server explicitly rejected the request
// (ServerError) or no usable response was obtained (NetworkError).
//
// Both kinds unwrap to a github.com/jmgilman/go/errors PlatformError so
// callers can ask errors.IsRetryable instead of switching on status codes.
package apierr
