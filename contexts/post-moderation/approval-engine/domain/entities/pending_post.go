package entities

import (
	"sort"
	"time"
)

// PostID identifies a pending post by the admin-group message that carries it.
type PostID struct {
	GroupID   int64
	MessageID int64
}

// PublishedRef identifies the channel message a promoted post was published as.
type PublishedRef struct {
	ChannelID int64
	MessageID int64
}

type Outcome string

const (
	OutcomeNone     Outcome = "none"
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

type AdminVote struct {
	AdminID  int64
	Approved bool
}

// PendingPost is a submission awaiting the admin quorum. An admin holds at
// most one entry in AdminVotes; casting again overwrites, never accumulates.
type PendingPost struct {
	ID          PostID
	SubmitterID int64
	AdminVotes  map[int64]bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SetVote records the admin's vote and reports whether anything changed.
// A repeated identical vote returns false so callers can skip UI updates.
func (p *PendingPost) SetVote(adminID int64, approve bool) bool {
	if p.AdminVotes == nil {
		p.AdminVotes = make(map[int64]bool)
	}
	if current, ok := p.AdminVotes[adminID]; ok && current == approve {
		return false
	}
	p.AdminVotes[adminID] = approve
	return true
}

// CountVotes returns how many admins currently vote in the given direction.
func (p PendingPost) CountVotes(approve bool) int {
	count := 0
	for _, vote := range p.AdminVotes {
		if vote == approve {
			count++
		}
	}
	return count
}

// Votes returns the vote list ordered by admin id for stable rendering.
func (p PendingPost) Votes() []AdminVote {
	items := make([]AdminVote, 0, len(p.AdminVotes))
	for adminID, approved := range p.AdminVotes {
		items = append(items, AdminVote{AdminID: adminID, Approved: approved})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AdminID < items[j].AdminID
	})
	return items
}

// Clone returns a deep copy so store adapters can hand out mutable snapshots.
func (p PendingPost) Clone() PendingPost {
	votes := make(map[int64]bool, len(p.AdminVotes))
	for adminID, vote := range p.AdminVotes {
		votes[adminID] = vote
	}
	clone := p
	clone.AdminVotes = votes
	return clone
}
