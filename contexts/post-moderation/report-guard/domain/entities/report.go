package entities

import "time"

// ReportKey is the dedup identity: one report per reporter per channel post.
type ReportKey struct {
	ReporterID int64
	ChannelID  int64
	MessageID  int64
}

type Report struct {
	ReportID  string
	Key       ReportKey
	Reason    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
