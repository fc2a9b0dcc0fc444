// Package sanitizer normalizes free-text patient input before validation and
// storage.
//
// All functions are idempotent and never fail: invalid input comes back as an
// empty string or unchanged, and callers decide how to degrade.
package sanitizer
