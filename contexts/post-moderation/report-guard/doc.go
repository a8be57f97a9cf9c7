// Package reportguard implements the duplicate-report guard inside the
// post-moderation context.
//
// A (reporter, channel, message) tuple may carry at most one report. The
// first attempt creates the record; every later attempt is rejected so the
// caller can tell the reporter the post was already flagged. The free-text
// reason is attached in a follow-up step.
package reportguard
