// Package livequery turns one-shot queries into long-lived subscriptions.
//
// A Hub owns one publisher per query key. The publisher runs the query once
// on start and again every time one of its tables is reported as changed via
// Notify, then fans the snapshot out to all current subscribers. A new
// subscriber immediately receives the latest snapshot, if any.
//
// Delivery is conflating: each subscription buffers at most one update and a
// newer snapshot replaces an unread older one, so slow readers never hold up
// writers or other readers.
//
// Lock order is Hub.mu, then publisher.mu, then Subscription.mu.
package livequery
