// Package common contains shared constants and sentinel errors used across
// MHST components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// identity token on outbound requests.
const AccessTokenHeaderName = "access_token"

// AllCategories is the article category filter that matches every row.
const AllCategories = "All"
