// Package insights generates suggestions from goal progress snapshots.
package insights

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wealthloop/goal-engine/internal/models"
)

// nearDeadlineDays is the window inside which a deadline counts as close.
const nearDeadlineDays = 7

// Insight is a display-ready observation about one goal or the whole set.
type Insight struct {
	Level   string
	Icon    string
	Title   string
	Message string
	GoalID  *uuid.UUID
}

// Generate produces insights from the owner's progress snapshots. Order is
// deterministic: per-goal insights follow the input order, summary last.
func Generate(progresses []models.GoalProgress) []Insight {
	var out []Insight
	completed := 0

	for i := range progresses {
		p := &progresses[i]
		switch p.Status {
		case models.StatusCompleted:
			completed++

		case models.StatusBehind:
			out = append(out, behindInsight(p))

		case models.StatusOverdue:
			out = append(out, Insight{
				Level:   "warning",
				Icon:    "⏰",
				Title:   "Deadline passed",
				Message: fmt.Sprintf("%q is past its target date at %.0f%%. Consider moving the deadline or adjusting the target.", p.Name, p.ProgressPercentage),
				GoalID:  &p.GoalID,
			})

		case models.StatusAhead:
			out = append(out, Insight{
				Level:   "success",
				Icon:    "🚀",
				Title:   "Ahead of schedule",
				Message: fmt.Sprintf("%q is at %.0f%% — ahead of plan. Keep it up!", p.Name, p.ProgressPercentage),
				GoalID:  &p.GoalID,
			})
		}

		if p.Status != models.StatusCompleted && p.Status != models.StatusOverdue &&
			p.DaysRemaining != nil && *p.DaysRemaining > 0 && *p.DaysRemaining <= nearDeadlineDays {
			out = append(out, Insight{
				Level:   "warning",
				Icon:    "📅",
				Title:   "Deadline approaching",
				Message: fmt.Sprintf("%q is due in %d day(s).", p.Name, *p.DaysRemaining),
				GoalID:  &p.GoalID,
			})
		}
	}

	if completed > 0 {
		out = append(out, Insight{
			Level:   "success",
			Icon:    "🏆",
			Title:   "Goals completed",
			Message: fmt.Sprintf("You have completed %d goal(s). Time to set a new challenge?", completed),
		})
	}

	return out
}

func behindInsight(p *models.GoalProgress) Insight {
	msg := fmt.Sprintf("%q is at %.0f%%, behind where it should be.", p.Name, p.ProgressPercentage)
	if p.MonthlyRequired != nil {
		msg = fmt.Sprintf("%s Putting aside %s per month would still get you there on time.", msg, p.MonthlyRequired.StringFixed(2))
	}
	return Insight{
		Level:   "info",
		Icon:    "📉",
		Title:   "Falling behind",
		Message: msg,
		GoalID:  &p.GoalID,
	}
}
