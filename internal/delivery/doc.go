// Package delivery hands finished digests to their destinations.
//
// The pipeline only sees the Deliverer interface; the Telegram Bot API
// implementation lives here so the platform envelope stays out of the core.
package delivery
