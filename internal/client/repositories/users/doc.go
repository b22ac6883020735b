// Package users provides the Access Layer for locally registered accounts.
//
// Insert is an upsert by primary key: an id of 0 asks the database to assign
// one, a non-zero id replaces the existing row. Email addresses are unique;
// a conflicting insert fails with common.ErrAlreadyExists. Update and Delete
// of an absent row are no-ops. Point reads return (nil, nil) when the row
// does not exist.
//
// Watch* methods return live subscriptions that are re-evaluated after every
// write to the users table made through a repository sharing the same hub.
package users
