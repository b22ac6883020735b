// Package preferences is a namespaced key/value store kept in SQLite.
//
// Every repository instance is scoped to one namespace; keys of other
// namespaces are invisible to it. Get returns (nil, nil) for absent keys.
package preferences
