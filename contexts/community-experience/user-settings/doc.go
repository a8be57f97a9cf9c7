// Package usersettings stores per-user posting preferences, currently the
// choice between anonymous and credited submissions.
package usersettings
