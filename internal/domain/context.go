package domain

// ClientContext is the bounded snapshot of one client's history assembled
// before an AI analysis. It is built fresh per request and never persisted.
// Missing data degrades to nil/empty fields rather than failing construction:
// partial histories (new clients) are the common case, not an error.
type ClientContext struct {
	ClientName string `json:"clientName"`

	Profile *ClientProfile `json:"profile,omitempty"`
	// Age in whole years, derived from Profile.BirthDate; nil when unknown.
	Age *int `json:"age,omitempty"`

	Intake *IntakeForm `json:"intake,omitempty"`

	// Bounded recency windows, most-recent-first.
	RecentWeeklyCheckIns []WeeklyCheckIn `json:"recentWeeklyCheckIns,omitempty"`
	RecentDailyCheckIns  []DailyCheckIn  `json:"recentDailyCheckIns,omitempty"`
	RecentWorkoutLogs    []WorkoutLog    `json:"recentWorkoutLogs,omitempty"`

	CurrentProgram   *TrainingProgram  `json:"currentProgram,omitempty"`
	NutritionTargets *NutritionTargets `json:"nutritionTargets,omitempty"`
	Goals            []Goal            `json:"goals,omitempty"`

	// WeightTrendKg is latest minus earliest weight observation within the
	// daily window, rounded to one decimal; nil below two observations.
	WeightTrendKg *float64 `json:"weightTrendKg,omitempty"`

	// CoachingHistory is the recent slice of the append-only event log,
	// most-recent-first. It carries prior decisions back into each analysis.
	CoachingHistory []CoachingEvent `json:"coachingHistory,omitempty"`
}
