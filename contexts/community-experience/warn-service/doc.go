// Package warnservice tracks admin warnings against users. Warnings expire
// after a configurable number of days; crossing the active-warn threshold
// bans the user exactly once.
package warnservice
