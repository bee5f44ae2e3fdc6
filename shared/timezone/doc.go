// Package timezone centralizes time handling in the configured application
// timezone. Reservation dates and times are kept as plain strings and compared
// lexically; this package only serves audit timestamps and report formatting.
package timezone
