package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"evotion/coaching-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newContextServiceForTest(
	userRepo *fakeUserRepo,
	profileRepo *fakeProfileRepo,
	checkInRepo *fakeCheckInRepo,
	programRepo *fakeProgramRepo,
	nutritionRepo *fakeNutritionRepo,
	goalRepo *fakeGoalRepo,
	eventRepo *fakeEventRepo,
) ContextService {
	return NewContextService(userRepo, profileRepo, checkInRepo, programRepo, nutritionRepo, goalRepo, eventRepo)
}

func emptyReposContextService(userRepo *fakeUserRepo) ContextService {
	return newContextServiceForTest(
		userRepo,
		&fakeProfileRepo{},
		&fakeCheckInRepo{},
		&fakeProgramRepo{},
		&fakeNutritionRepo{},
		&fakeGoalRepo{},
		&fakeEventRepo{},
	)
}

func TestBuildContextNewClientDegradesToEmpty(t *testing.T) {
	clientID := primitive.NewObjectID()
	svc := emptyReposContextService(&fakeUserRepo{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Fresh Client"}, nil
		},
	})

	snapshot, err := svc.BuildContext(context.Background(), clientID)
	require.NoError(t, err)

	assert.Equal(t, "Fresh Client", snapshot.ClientName)
	assert.Nil(t, snapshot.Profile)
	assert.Nil(t, snapshot.Age)
	assert.Nil(t, snapshot.Intake)
	assert.Nil(t, snapshot.CurrentProgram)
	assert.Nil(t, snapshot.NutritionTargets)
	assert.Nil(t, snapshot.WeightTrendKg)
	assert.Empty(t, snapshot.RecentWeeklyCheckIns)
	assert.Empty(t, snapshot.RecentDailyCheckIns)
	assert.Empty(t, snapshot.RecentWorkoutLogs)
	assert.Empty(t, snapshot.Goals)
	assert.Empty(t, snapshot.CoachingHistory)
}

func TestBuildContextMissingClientFails(t *testing.T) {
	svc := emptyReposContextService(&fakeUserRepo{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
			return nil, errNotFoundForTest()
		},
	})

	snapshot, err := svc.BuildContext(context.Background(), primitive.NewObjectID())
	assert.Error(t, err)
	assert.Nil(t, snapshot)
}

func TestBuildContextSubReadErrorFailsWhole(t *testing.T) {
	readErr := errors.New("connection reset")
	svc := newContextServiceForTest(
		&fakeUserRepo{},
		&fakeProfileRepo{},
		&fakeCheckInRepo{
			RecentDailyFn: func(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.DailyCheckIn, error) {
				return nil, readErr
			},
		},
		&fakeProgramRepo{},
		&fakeNutritionRepo{},
		&fakeGoalRepo{},
		&fakeEventRepo{},
	)

	snapshot, err := svc.BuildContext(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.Nil(t, snapshot)
	assert.ErrorIs(t, err, readErr)
}

func TestBuildContextRequestsBoundedWindows(t *testing.T) {
	var weeklyLimit, dailyLimit, workoutLimit, eventLimit int
	svc := newContextServiceForTest(
		&fakeUserRepo{},
		&fakeProfileRepo{},
		&fakeCheckInRepo{
			RecentWeeklyFn: func(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.WeeklyCheckIn, error) {
				weeklyLimit = limit
				return nil, nil
			},
			RecentDailyFn: func(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.DailyCheckIn, error) {
				dailyLimit = limit
				return nil, nil
			},
		},
		&fakeProgramRepo{
			RecentWorkoutLogsFn: func(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.WorkoutLog, error) {
				workoutLimit = limit
				return nil, nil
			},
		},
		&fakeNutritionRepo{},
		&fakeGoalRepo{},
		&fakeEventRepo{
			RecentFn: func(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.CoachingEvent, error) {
				eventLimit = limit
				return nil, nil
			},
		},
	)

	_, err := svc.BuildContext(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	assert.Equal(t, WeeklyCheckInWindow, weeklyLimit)
	assert.Equal(t, DailyCheckInWindow, dailyLimit)
	assert.Equal(t, WorkoutLogWindow, workoutLimit)
	assert.Equal(t, CoachingHistoryWindow, eventLimit)
}

func TestBuildContextComputesAgeAndTrend(t *testing.T) {
	birth := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	svc := newContextServiceForTest(
		&fakeUserRepo{},
		&fakeProfileRepo{
			GetProfileFn: func(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientProfile, error) {
				return &domain.ClientProfile{ClientID: clientID, BirthDate: &birth}, nil
			},
		},
		&fakeCheckInRepo{
			RecentDailyFn: func(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.DailyCheckIn, error) {
				return []domain.DailyCheckIn{
					{WeightKg: floatPtr(81.2), CheckedInAt: now},
					{CheckedInAt: now.AddDate(0, 0, -1)}, // no weight that day
					{WeightKg: floatPtr(82.55), CheckedInAt: now.AddDate(0, 0, -2)},
				}, nil
			},
		},
		&fakeProgramRepo{},
		&fakeNutritionRepo{},
		&fakeGoalRepo{},
		&fakeEventRepo{},
	)

	snapshot, err := svc.BuildContext(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	require.NotNil(t, snapshot.Age)
	assert.GreaterOrEqual(t, *snapshot.Age, 35)

	// 81.2 - 82.55 = -1.35, rounded to one decimal.
	require.NotNil(t, snapshot.WeightTrendKg)
	assert.InDelta(t, -1.4, *snapshot.WeightTrendKg, 0.001)
}

func TestAgeFromBirthDate(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, ageFromBirthDate(nil, now))

	beforeBirthday := time.Date(1990, 12, 1, 0, 0, 0, 0, time.UTC)
	age := ageFromBirthDate(&beforeBirthday, now)
	require.NotNil(t, age)
	assert.Equal(t, 35, *age)

	afterBirthday := time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC)
	age = ageFromBirthDate(&afterBirthday, now)
	require.NotNil(t, age)
	assert.Equal(t, 36, *age)

	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, ageFromBirthDate(&future, now))
}

func TestWeightTrend(t *testing.T) {
	now := time.Now().UTC()

	assert.Nil(t, weightTrend(nil))
	assert.Nil(t, weightTrend([]domain.DailyCheckIn{
		{WeightKg: floatPtr(80), CheckedInAt: now},
	}))
	assert.Nil(t, weightTrend([]domain.DailyCheckIn{
		{CheckedInAt: now},
		{CheckedInAt: now.AddDate(0, 0, -1)},
	}))

	trend := weightTrend([]domain.DailyCheckIn{
		{WeightKg: floatPtr(79.8), CheckedInAt: now},
		{WeightKg: floatPtr(80.4), CheckedInAt: now.AddDate(0, 0, -3)},
		{WeightKg: floatPtr(81.1), CheckedInAt: now.AddDate(0, 0, -6)},
	})
	require.NotNil(t, trend)
	assert.InDelta(t, -1.3, *trend, 0.001)
}
