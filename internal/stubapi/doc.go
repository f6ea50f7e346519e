// Package stubapi is an in-memory emulation of the bazaar HTTP API built on
// Fiber. It honours If-None-Match with per-record ETags, negotiates msgpack,
// cbor and json bodies, renders failures as problem JSON and lets tests force
// the next responses to fail. cmd/stubapi serves it for host development.
package stubapi
