package gamification

import (
	"github.com/shopspring/decimal"

	"github.com/wealthloop/goal-engine/internal/models"
)

// Milestones are the fixed progress checkpoints that award experience and
// trigger progress notifications. Not configurable.
var Milestones = []int{25, 50, 75, 100}

// experiencePoints maps each awarding action to its point value.
var experiencePoints = map[models.ExperienceAction]int{
	models.ActionGoalCreated:      10,
	models.ActionGoalCompleted:    50,
	models.ActionMilestoneReached: 25,
	models.ActionStreakMaintained: 5,
}

// PointsFor returns the experience value of an action. Unknown actions are
// worth nothing.
func PointsFor(action models.ExperienceAction) int {
	return experiencePoints[action]
}

// levels is the static level table, ordered by ascending threshold.
// Level 1 starts at zero so a level can always be resolved; the top level
// is a ceiling.
var levels = []models.Level{
	{Level: 1, MinExperience: 0, MaxExperience: 99, Title: "Beginner", Benefits: []string{"Basic goal tracking"}},
	{Level: 2, MinExperience: 100, MaxExperience: 249, Title: "Saver", Benefits: []string{"Progress insights"}},
	{Level: 3, MinExperience: 250, MaxExperience: 499, Title: "Planner", Benefits: []string{"Progress insights", "Custom categories"}},
	{Level: 4, MinExperience: 500, MaxExperience: 999, Title: "Strategist", Benefits: []string{"Progress insights", "Custom categories", "Advanced projections"}},
	{Level: 5, MinExperience: 1000, MaxExperience: 2499, Title: "Achiever", Benefits: []string{"All Strategist benefits", "Priority recompute"}},
	{Level: 6, MinExperience: 2500, MaxExperience: 4999, Title: "Expert", Benefits: []string{"All Achiever benefits", "Beta features"}},
	{Level: 7, MinExperience: 5000, MaxExperience: 9999, Title: "Master", Benefits: []string{"All Expert benefits", "Early access"}},
	{Level: 8, MinExperience: 10000, MaxExperience: 1<<31 - 1, Title: "Legend", Benefits: []string{"Everything"}},
}

// badges is the static badge catalog, loaded once and never mutated.
var badges = []models.Badge{
	{
		ID: "first-goal", Name: "Goal Setter", Icon: "🎯",
		Description: "Create your first goal",
		Category:    models.BadgeCategoryAchievement,
		Requirement: models.BadgeRequirement{Kind: models.RequirementGoalsCreated, Threshold: decimal.NewFromInt(1)},
	},
	{
		ID: "five-goals", Name: "Ambitious", Icon: "🧭",
		Description: "Create five goals",
		Category:    models.BadgeCategoryAchievement,
		Requirement: models.BadgeRequirement{Kind: models.RequirementGoalsCreated, Threshold: decimal.NewFromInt(5)},
	},
	{
		ID: "first-completion", Name: "Finisher", Icon: "🏁",
		Description: "Complete your first goal",
		Category:    models.BadgeCategoryMilestone,
		Requirement: models.BadgeRequirement{Kind: models.RequirementGoalCompletion, Threshold: decimal.NewFromInt(1)},
	},
	{
		ID: "five-completions", Name: "Serial Achiever", Icon: "🏆",
		Description: "Complete five goals",
		Category:    models.BadgeCategoryMilestone,
		Requirement: models.BadgeRequirement{Kind: models.RequirementGoalCompletion, Threshold: decimal.NewFromInt(5)},
	},
	{
		ID: "saved-1k", Name: "Nest Egg", Icon: "🪺",
		Description: "Save a total of 1,000",
		Category:    models.BadgeCategoryMilestone,
		Requirement: models.BadgeRequirement{Kind: models.RequirementSavingsAmount, Threshold: decimal.NewFromInt(1000)},
	},
	{
		ID: "saved-10k", Name: "Wealth Builder", Icon: "💰",
		Description: "Save a total of 10,000",
		Category:    models.BadgeCategoryMilestone,
		Requirement: models.BadgeRequirement{Kind: models.RequirementSavingsAmount, Threshold: decimal.NewFromInt(10000)},
	},
	{
		ID: "week-streak", Name: "Consistent", Icon: "🔥",
		Description: "Stay active seven days in a row",
		Category:    models.BadgeCategoryStreak,
		Requirement: models.BadgeRequirement{Kind: models.RequirementStreakDays, Threshold: decimal.NewFromInt(7)},
	},
	{
		ID: "month-streak", Name: "Unstoppable", Icon: "⚡",
		Description: "Stay active thirty days in a row",
		Category:    models.BadgeCategoryStreak,
		Requirement: models.BadgeRequirement{Kind: models.RequirementStreakDays, Threshold: decimal.NewFromInt(30)},
	},
}

// Catalog returns the badge catalog. Callers must not modify the result.
func Catalog() []models.Badge {
	return badges
}

// LevelTable returns the level table. Callers must not modify the result.
func LevelTable() []models.Level {
	return levels
}
