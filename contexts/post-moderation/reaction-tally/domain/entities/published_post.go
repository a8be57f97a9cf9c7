package entities

import "time"

// PostID identifies a published post by its channel message.
type PostID struct {
	ChannelID int64
	MessageID int64
}

type CategoryCount struct {
	Category string
	Count    int
}

// PublishedPost is a live channel post collecting reader reactions.
// Reactions maps voter id to their single active category.
type PublishedPost struct {
	ID        PostID
	Reactions map[int64]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetReaction applies the toggle/switch rule and reports whether the voter
// now holds the category (true) or retracted it (false).
func (p *PublishedPost) SetReaction(voterID int64, category string) bool {
	if p.Reactions == nil {
		p.Reactions = make(map[int64]string)
	}
	if current, ok := p.Reactions[voterID]; ok && current == category {
		delete(p.Reactions, voterID)
		return false
	}
	p.Reactions[voterID] = category
	return true
}

// Counts tallies reactions in the caller-supplied category order so the
// renderer receives a stable layout.
func (p PublishedPost) Counts(categories []string) []CategoryCount {
	byCategory := make(map[string]int, len(categories))
	for _, category := range p.Reactions {
		byCategory[category]++
	}
	items := make([]CategoryCount, 0, len(categories))
	for _, category := range categories {
		items = append(items, CategoryCount{Category: category, Count: byCategory[category]})
	}
	return items
}

// Clone returns a deep copy for store adapters handing out mutable snapshots.
func (p PublishedPost) Clone() PublishedPost {
	reactions := make(map[int64]string, len(p.Reactions))
	for voterID, category := range p.Reactions {
		reactions[voterID] = category
	}
	clone := p
	clone.Reactions = reactions
	return clone
}
