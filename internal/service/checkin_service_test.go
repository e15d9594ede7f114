package service

import (
	"context"
	"testing"

	"evotion/coaching-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSubmitWeeklyValidRatings(t *testing.T) {
	svc := NewCheckInService(&fakeCheckInRepo{}, &fakeProgramRepo{}, &fakeNutritionRepo{})

	checkIn := &domain.WeeklyCheckIn{
		ClientID:    primitive.NewObjectID(),
		EnergyLevel: intPtr(1),
		SleepRating: intPtr(10),
	}
	_, err := svc.SubmitWeekly(context.Background(), checkIn)
	assert.NoError(t, err)
}

func TestSubmitWeeklyRejectsOutOfRangeRatings(t *testing.T) {
	svc := NewCheckInService(&fakeCheckInRepo{}, &fakeProgramRepo{}, &fakeNutritionRepo{})

	for name, checkIn := range map[string]*domain.WeeklyCheckIn{
		"energy too low":  {ClientID: primitive.NewObjectID(), EnergyLevel: intPtr(0)},
		"sleep too high":  {ClientID: primitive.NewObjectID(), SleepRating: intPtr(11)},
		"stress negative": {ClientID: primitive.NewObjectID(), StressLevel: intPtr(-2)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SubmitWeekly(context.Background(), checkIn)
			assert.ErrorIs(t, err, ErrInvalidRating)
		})
	}
}

func TestSubmitWeeklyAllowsSkippedRatings(t *testing.T) {
	svc := NewCheckInService(&fakeCheckInRepo{}, &fakeProgramRepo{}, &fakeNutritionRepo{})

	checkIn := &domain.WeeklyCheckIn{ClientID: primitive.NewObjectID(), Notes: "only notes this week"}
	_, err := svc.SubmitWeekly(context.Background(), checkIn)
	assert.NoError(t, err)
}

func TestSubmitDailyRejectsNonPositiveWeight(t *testing.T) {
	svc := NewCheckInService(&fakeCheckInRepo{}, &fakeProgramRepo{}, &fakeNutritionRepo{})

	checkIn := &domain.DailyCheckIn{ClientID: primitive.NewObjectID(), WeightKg: floatPtr(0)}
	_, err := svc.SubmitDaily(context.Background(), checkIn)
	assert.Error(t, err)
}

func TestLogWorkoutRequiresSessionName(t *testing.T) {
	svc := NewCheckInService(&fakeCheckInRepo{}, &fakeProgramRepo{}, &fakeNutritionRepo{})

	_, err := svc.LogWorkout(context.Background(), &domain.WorkoutLog{ClientID: primitive.NewObjectID()})
	assert.Error(t, err)
}

func TestGetNutritionTargetsNoneSet(t *testing.T) {
	svc := NewCheckInService(&fakeCheckInRepo{}, &fakeProgramRepo{}, &fakeNutritionRepo{})

	targets, err := svc.GetNutritionTargets(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, targets)
}
