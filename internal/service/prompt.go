package service

import (
	"fmt"
	"strings"

	"evotion/coaching-engine/internal/domain"
)

// Number of most recent weekly check-ins the averages are computed over.
const weeklyAverageWindow = 4

const contextDateLayout = "2006-01-02"

// FormatForPrompt renders a ClientContext into the deterministic text block
// sent to the model. Field order is stable across calls. A section whose
// underlying value is nil/empty is omitted entirely, never rendered as "N/A".
func FormatForPrompt(snapshot *domain.ClientContext) string {
	var b strings.Builder

	b.WriteString("CLIENT CONTEXT\n")

	writeProfileSection(&b, snapshot)
	writeIntakeSection(&b, snapshot.Intake)
	writeProgramSection(&b, snapshot.CurrentProgram)
	writeNutritionSection(&b, snapshot.NutritionTargets)
	writeGoalsSection(&b, snapshot.Goals)
	writeWeeklyCheckInSection(&b, snapshot.RecentWeeklyCheckIns)
	writeDailyCheckInSection(&b, snapshot.RecentDailyCheckIns, snapshot.WeightTrendKg)
	writeWorkoutSection(&b, snapshot.RecentWorkoutLogs)
	writeHistorySection(&b, snapshot.CoachingHistory)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeProfileSection(b *strings.Builder, snapshot *domain.ClientContext) {
	profile := snapshot.Profile
	hasProfileData := profile != nil &&
		(snapshot.Age != nil || profile.HeightCm != nil || profile.CurrentWeight != nil ||
			profile.GoalWeight != nil || profile.ActivityLevel != "")
	if snapshot.ClientName == "" && !hasProfileData {
		return
	}

	b.WriteString("\nPROFILE\n")
	if snapshot.ClientName != "" {
		fmt.Fprintf(b, "Name: %s\n", snapshot.ClientName)
	}
	if !hasProfileData {
		return
	}
	if snapshot.Age != nil {
		fmt.Fprintf(b, "Age: %d\n", *snapshot.Age)
	}
	if profile.HeightCm != nil {
		fmt.Fprintf(b, "Height: %.0f cm\n", *profile.HeightCm)
	}
	if profile.CurrentWeight != nil {
		fmt.Fprintf(b, "Current weight: %.1f kg\n", *profile.CurrentWeight)
	}
	if profile.GoalWeight != nil {
		fmt.Fprintf(b, "Goal weight: %.1f kg\n", *profile.GoalWeight)
	}
	if profile.ActivityLevel != "" {
		fmt.Fprintf(b, "Activity level: %s\n", profile.ActivityLevel)
	}
}

func writeIntakeSection(b *strings.Builder, intake *domain.IntakeForm) {
	if intake == nil {
		return
	}
	if intake.Goals == "" && intake.MedicalFlags == "" && intake.DietaryRestrictions == "" && intake.WeeklySchedule == "" {
		return
	}

	b.WriteString("\nINTAKE\n")
	if intake.Goals != "" {
		fmt.Fprintf(b, "Goals: %s\n", intake.Goals)
	}
	if intake.MedicalFlags != "" {
		fmt.Fprintf(b, "Medical flags: %s\n", intake.MedicalFlags)
	}
	if intake.DietaryRestrictions != "" {
		fmt.Fprintf(b, "Dietary restrictions: %s\n", intake.DietaryRestrictions)
	}
	if intake.WeeklySchedule != "" {
		fmt.Fprintf(b, "Schedule: %s\n", intake.WeeklySchedule)
	}
}

func writeProgramSection(b *strings.Builder, program *domain.TrainingProgram) {
	if program == nil {
		return
	}

	b.WriteString("\nCURRENT PROGRAM\n")
	fmt.Fprintf(b, "%s (%s)\n", program.Name, program.Status)
	for _, block := range program.Blocks {
		fmt.Fprintf(b, "- %s: %d weeks\n", block.Name, block.DurationWeeks)
	}
}

func writeNutritionSection(b *strings.Builder, targets *domain.NutritionTargets) {
	if targets == nil {
		return
	}

	b.WriteString("\nNUTRITION TARGETS\n")
	fmt.Fprintf(b, "Calories: %d kcal, Protein: %d g, Carbs: %d g, Fats: %d g\n",
		targets.Calories, targets.ProteinG, targets.CarbsG, targets.FatsG)
}

func writeGoalsSection(b *strings.Builder, goals []domain.Goal) {
	if len(goals) == 0 {
		return
	}

	b.WriteString("\nGOALS\n")
	for _, goal := range goals {
		fmt.Fprintf(b, "- %s (%s)\n", goal.Title, goal.Status)
	}
}

func writeWeeklyCheckInSection(b *strings.Builder, checkIns []domain.WeeklyCheckIn) {
	if len(checkIns) == 0 {
		return
	}

	fmt.Fprintf(b, "\nWEEKLY CHECK-INS (most recent first, last %d)\n", len(checkIns))
	for _, c := range checkIns {
		fmt.Fprintf(b, "- %s:", c.CheckedInAt.Format(contextDateLayout))
		var parts []string
		if c.WeightKg != nil {
			parts = append(parts, fmt.Sprintf(" weight %.1f kg", *c.WeightKg))
		}
		if c.EnergyLevel != nil {
			parts = append(parts, fmt.Sprintf(" energy %d/10", *c.EnergyLevel))
		}
		if c.SleepRating != nil {
			parts = append(parts, fmt.Sprintf(" sleep %d/10", *c.SleepRating))
		}
		if c.StressLevel != nil {
			parts = append(parts, fmt.Sprintf(" stress %d/10", *c.StressLevel))
		}
		if c.Notes != "" {
			parts = append(parts, fmt.Sprintf(" notes: %s", c.Notes))
		}
		b.WriteString(strings.Join(parts, ","))
		b.WriteString("\n")
	}

	if avg, ok := meanEnergy(checkIns, weeklyAverageWindow); ok {
		fmt.Fprintf(b, "Average energy (last %d weeks): %.1f/10\n", weeklyAverageWindow, avg)
	}
}

func writeDailyCheckInSection(b *strings.Builder, checkIns []domain.DailyCheckIn, trend *float64) {
	if len(checkIns) == 0 {
		return
	}

	fmt.Fprintf(b, "\nDAILY CHECK-INS (most recent first, last %d)\n", len(checkIns))
	for _, c := range checkIns {
		fmt.Fprintf(b, "- %s:", c.CheckedInAt.Format(contextDateLayout))
		var parts []string
		if c.WeightKg != nil {
			parts = append(parts, fmt.Sprintf(" weight %.1f kg", *c.WeightKg))
		}
		if c.Steps != nil {
			parts = append(parts, fmt.Sprintf(" steps %d", *c.Steps))
		}
		if c.SleepHours != nil {
			parts = append(parts, fmt.Sprintf(" sleep %.1f h", *c.SleepHours))
		}
		if c.CaloriesEst != nil {
			parts = append(parts, fmt.Sprintf(" ~%d kcal", *c.CaloriesEst))
		}
		if c.Notes != "" {
			parts = append(parts, fmt.Sprintf(" notes: %s", c.Notes))
		}
		b.WriteString(strings.Join(parts, ","))
		b.WriteString("\n")
	}

	if trend != nil {
		fmt.Fprintf(b, "Weight trend over window: %+.1f kg\n", *trend)
	}
}

func writeWorkoutSection(b *strings.Builder, logs []domain.WorkoutLog) {
	if len(logs) == 0 {
		return
	}

	fmt.Fprintf(b, "\nRECENT WORKOUTS (most recent first, last %d)\n", len(logs))
	for _, l := range logs {
		fmt.Fprintf(b, "- %s: %s", l.PerformedAt.Format(contextDateLayout), l.SessionName)
		if len(l.Exercises) > 0 {
			b.WriteString(" — ")
			var exercises []string
			for _, e := range l.Exercises {
				exercises = append(exercises, formatExerciseLog(e))
			}
			b.WriteString(strings.Join(exercises, "; "))
		}
		b.WriteString("\n")
	}
}

func formatExerciseLog(e domain.ExerciseLog) string {
	if len(e.Sets) == 0 {
		return e.ExerciseName
	}
	var sets []string
	for _, s := range e.Sets {
		if s.WeightKg != nil {
			sets = append(sets, fmt.Sprintf("%dx%.1fkg", s.Reps, *s.WeightKg))
		} else {
			sets = append(sets, fmt.Sprintf("%d reps", s.Reps))
		}
	}
	return fmt.Sprintf("%s %s", e.ExerciseName, strings.Join(sets, ", "))
}

func writeHistorySection(b *strings.Builder, events []domain.CoachingEvent) {
	if len(events) == 0 {
		return
	}

	b.WriteString("\nCOACHING HISTORY (most recent first)\n")
	for _, e := range events {
		fmt.Fprintf(b, "- %s [%s] %s: %s", e.CreatedAt.Format(contextDateLayout), e.Source, e.Area, e.Title)
		if e.Description != "" {
			fmt.Fprintf(b, " — %s", e.Description)
		}
		b.WriteString("\n")
	}
}

// meanEnergy averages the energy level over the window most recent weekly
// check-ins. Check-ins with no energy rating are skipped, never zero-filled:
// the divisor is the number of present values only.
func meanEnergy(checkIns []domain.WeeklyCheckIn, window int) (float64, bool) {
	if window > len(checkIns) {
		window = len(checkIns)
	}
	var sum, count int
	for _, c := range checkIns[:window] {
		if c.EnergyLevel != nil {
			sum += *c.EnergyLevel
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}
