// Package store owns the client's persistent relational database.
//
// Open applies the embedded schema (version SchemaVersion) with goose. A
// database at any other non-zero version is destroyed and recreated: local
// data is disposable and there is no upgrade path. When the database is
// created, sample therapists and articles are inserted once, in a single
// transaction, on a background goroutine; WaitSeeded reports when that has
// finished.
//
// A Store is constructed once at startup and passed to its consumers. It
// vends Access Layer repositories that share one live-query hub, so every
// write made through them refreshes the matching live queries.
package store
