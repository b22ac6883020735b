// Package services contains the application services of the mhst client.
//
// Services sit between the command layer and the repositories. They turn
// expected outcomes (duplicate email, wrong credentials, absent rows) into
// result values and log infrastructure failures instead of returning them
// raw.
package services
