// Package normalize converts raw provider records into canonical events.
//
// The normalizer owns:
//   - timestamp parsing, with provider clocks treated as UTC
//   - title cleanup (trailing reference-period parentheticals stripped)
//   - impact-label -> importance mapping (unknown labels map to the lowest tier)
//   - the display-window filter: a record belongs to a display day iff its
//     UTC timestamp falls in [day 08:00 local, next day 08:00 local)
//
// The window anchors a business day at a fixed local hour instead of
// calendar midnight, because raw dates arrive in UTC while the display
// timezone is offset from it.
package normalize
