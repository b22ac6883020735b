// Package cli provides the interactive mhst command-line client.
//
// The REPL reads one command per line and dispatches it to App, which talks
// to the client services built by the app container. Typical flow: log in
// or register, browse articles by category, look up therapists, log out.
//
// Login goes to the identity service when one is configured and falls back
// to local accounts when the service cannot be reached.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
