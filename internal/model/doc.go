// Package model holds the remote record schemas exchanged with the bazaar API
// and the drafts built from host input. Field names are snake_case on every
// wire format. Each record kind carries a schema number; bump it whenever the
// shape changes so stale cache entries are discarded instead of mis-decoded.
package model
