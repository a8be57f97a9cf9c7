package application

import (
	"fmt"

	"spotted/contexts/post-moderation/callback-router/domain/entities"
	"spotted/contexts/post-moderation/callback-router/ports"
)

// KeyboardRenderer builds the inline keyboards attached to review and
// published messages. Labels maps a reaction category onto its display
// emoji; categories without a label render as themselves.
type KeyboardRenderer struct {
	Labels map[string]string
}

var _ ports.Renderer = KeyboardRenderer{}

// RenderApproval lays out the two admin voting buttons with live counts.
func (r KeyboardRenderer) RenderApproval(approvals, rejections int) entities.Keyboard {
	return entities.Keyboard{
		{
			{Text: fmt.Sprintf("🟢 %d", approvals), CallbackData: string(entities.CommandApproveYes)},
			{Text: fmt.Sprintf("🔴 %d", rejections), CallbackData: string(entities.CommandApproveNo)},
		},
	}
}

// RenderTally lays out one reaction button per category plus the report
// button on its own row.
func (r KeyboardRenderer) RenderTally(_, _ int64, counts []ports.CategoryCount) entities.Keyboard {
	row := make([]entities.Button, 0, len(counts))
	for _, count := range counts {
		label := count.Category
		if mapped, ok := r.Labels[count.Category]; ok {
			label = mapped
		}
		if count.Count > 0 {
			label = fmt.Sprintf("%s %d", label, count.Count)
		}
		row = append(row, entities.Button{
			Text:         label,
			CallbackData: fmt.Sprintf("%s,%s", entities.CommandVote, count.Category),
		})
	}
	return entities.Keyboard{
		row,
		{{Text: "Report", CallbackData: string(entities.CommandReport)}},
	}
}
