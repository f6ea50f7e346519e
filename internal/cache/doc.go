// Package cache keeps the last known good representation of every remote
// record on disk, under <root>/<base64url(origin)>/<version>/<name>. Each entry
// is a framed body file plus a JSON metadata file carrying the validators used
// for conditional revalidation. Files are replaced atomically (temp file +
// rename) but body and metadata are written independently, so a reader may see
// a new body with old metadata after a crash; callers treat that as a miss or
// a stale validator, never as a decode error.
package cache
