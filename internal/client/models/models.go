// Package models defines the client-side records stored in the local database
// and the session record kept in the session store.
package models

import "time"

// User is a locally registered account. Password is stored as given.
type User struct {
	ID               int64  `db:"user_id"`
	Name             string `db:"name"`
	Email            string `db:"email"`
	Password         string `db:"password"`
	RegistrationDate int64  `db:"registration_date"` // unix millis
}

// RegisteredAt converts RegistrationDate to time.Time.
func (u User) RegisteredAt() time.Time {
	return time.UnixMilli(u.RegistrationDate)
}

// Article is a piece of reading material grouped by a free-text category.
type Article struct {
	ID          int64  `db:"article_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Category    string `db:"category"`
	Content     string `db:"content"`
	ImageRef    string `db:"image_ref"`
}

// Therapist is a directory listing.
type Therapist struct {
	ID             int64   `db:"therapist_id"`
	Name           string  `db:"name"`
	Specialization string  `db:"specialization"`
	Phone          string  `db:"phone"`
	Email          string  `db:"email"`
	Location       string  `db:"location"`
	Availability   string  `db:"availability"`
	ImageURL       *string `db:"image_url"`
}

// Session identifies the user currently logged in on this device.
type Session struct {
	UserID    int64
	UserName  string
	UserEmail string
}
