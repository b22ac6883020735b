// Package therapists provides the Access Layer for the therapist directory.
// Listings are ordered by name.
package therapists
