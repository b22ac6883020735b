// Package articles provides the Access Layer for reading material.
//
// Listings are ordered newest first (article id descending). Insert and
// InsertAll are upserts by primary key; id 0 asks for a new id.
package articles
