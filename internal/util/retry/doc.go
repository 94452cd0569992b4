// Package retry provides bounded, fixed-interval polling.
//
// [Poll] checks a condition once immediately and then up to MaxRetries more
// times with a constant sleep in between. Sleeps go through an injectable
// [clock.Clock], so tests can run the full wait without wall-clock delay.
// There is no backoff and no cancellation: exhausting the retry budget is the
// only way out besides success or a failing check.
package retry
