package service

import (
	"context"
	"time"

	"evotion/coaching-engine/internal/domain"
	"evotion/coaching-engine/internal/llm"
	"evotion/coaching-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Function-field fakes. Unset fields default to empty results so each test
// only wires the calls it cares about.

func errNotFoundForTest() error { return repository.ErrNotFound }

type fakeUserRepo struct {
	GetByIDFn    func(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)

	LinkedToCoach  []primitive.ObjectID
	CoachSetForIDs []primitive.ObjectID
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.GetByEmailFn != nil {
		return f.GetByEmailFn(ctx, email)
	}
	return nil, errNotFoundForTest()
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return &domain.User{ID: id}, nil
}

func (f *fakeUserRepo) AddClientIDToCoach(ctx context.Context, coachID, clientID primitive.ObjectID) error {
	f.LinkedToCoach = append(f.LinkedToCoach, clientID)
	return nil
}

func (f *fakeUserRepo) GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error {
	f.CoachSetForIDs = append(f.CoachSetForIDs, clientID)
	return nil
}

type fakeProfileRepo struct {
	GetProfileFn func(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientProfile, error)
	GetIntakeFn  func(ctx context.Context, clientID primitive.ObjectID) (*domain.IntakeForm, error)
}

func (f *fakeProfileRepo) GetProfile(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientProfile, error) {
	if f.GetProfileFn != nil {
		return f.GetProfileFn(ctx, clientID)
	}
	return nil, errNotFoundForTest()
}

func (f *fakeProfileRepo) UpsertProfile(ctx context.Context, profile *domain.ClientProfile) error {
	return nil
}

func (f *fakeProfileRepo) GetIntake(ctx context.Context, clientID primitive.ObjectID) (*domain.IntakeForm, error) {
	if f.GetIntakeFn != nil {
		return f.GetIntakeFn(ctx, clientID)
	}
	return nil, errNotFoundForTest()
}

func (f *fakeProfileRepo) SaveIntake(ctx context.Context, intake *domain.IntakeForm) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

type fakeCheckInRepo struct {
	RecentWeeklyFn func(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.WeeklyCheckIn, error)
	RecentDailyFn  func(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.DailyCheckIn, error)
}

func (f *fakeCheckInRepo) CreateWeekly(ctx context.Context, checkIn *domain.WeeklyCheckIn) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (f *fakeCheckInRepo) CreateDaily(ctx context.Context, checkIn *domain.DailyCheckIn) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (f *fakeCheckInRepo) RecentWeekly(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.WeeklyCheckIn, error) {
	if f.RecentWeeklyFn != nil {
		return f.RecentWeeklyFn(ctx, clientID, limit)
	}
	return nil, nil
}

func (f *fakeCheckInRepo) RecentDaily(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.DailyCheckIn, error) {
	if f.RecentDailyFn != nil {
		return f.RecentDailyFn(ctx, clientID, limit)
	}
	return nil, nil
}

type fakeProgramRepo struct {
	GetActiveProgramFn  func(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainingProgram, error)
	RecentWorkoutLogsFn func(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.WorkoutLog, error)
}

func (f *fakeProgramRepo) Create(ctx context.Context, program *domain.TrainingProgram) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (f *fakeProgramRepo) GetActiveProgram(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainingProgram, error) {
	if f.GetActiveProgramFn != nil {
		return f.GetActiveProgramFn(ctx, clientID)
	}
	return nil, errNotFoundForTest()
}

func (f *fakeProgramRepo) CreateWorkoutLog(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (f *fakeProgramRepo) RecentWorkoutLogs(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.WorkoutLog, error) {
	if f.RecentWorkoutLogsFn != nil {
		return f.RecentWorkoutLogsFn(ctx, clientID, limit)
	}
	return nil, nil
}

type fakeNutritionRepo struct {
	GetTargetsFn       func(ctx context.Context, clientID primitive.ObjectID) (*domain.NutritionTargets, error)
	SetTargetsFn       func(ctx context.Context, targets *domain.NutritionTargets) error
	InsertSupplementFn func(ctx context.Context, supplement *domain.Supplement) (primitive.ObjectID, error)

	SetTargetsCalls       []*domain.NutritionTargets
	InsertSupplementCalls []*domain.Supplement
}

func (f *fakeNutritionRepo) GetTargets(ctx context.Context, clientID primitive.ObjectID) (*domain.NutritionTargets, error) {
	if f.GetTargetsFn != nil {
		return f.GetTargetsFn(ctx, clientID)
	}
	return nil, errNotFoundForTest()
}

func (f *fakeNutritionRepo) SetTargets(ctx context.Context, targets *domain.NutritionTargets) error {
	f.SetTargetsCalls = append(f.SetTargetsCalls, targets)
	if f.SetTargetsFn != nil {
		return f.SetTargetsFn(ctx, targets)
	}
	return nil
}

func (f *fakeNutritionRepo) InsertSupplement(ctx context.Context, supplement *domain.Supplement) (primitive.ObjectID, error) {
	f.InsertSupplementCalls = append(f.InsertSupplementCalls, supplement)
	if f.InsertSupplementFn != nil {
		return f.InsertSupplementFn(ctx, supplement)
	}
	return primitive.NewObjectID(), nil
}

func (f *fakeNutritionRepo) GetSupplements(ctx context.Context, clientID primitive.ObjectID) ([]domain.Supplement, error) {
	return nil, nil
}

type fakeGoalRepo struct {
	GetActiveGoalsFn func(ctx context.Context, clientID primitive.ObjectID) ([]domain.Goal, error)
}

func (f *fakeGoalRepo) Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (f *fakeGoalRepo) GetActiveGoals(ctx context.Context, clientID primitive.ObjectID) ([]domain.Goal, error) {
	if f.GetActiveGoalsFn != nil {
		return f.GetActiveGoalsFn(ctx, clientID)
	}
	return nil, nil
}

func (f *fakeGoalRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.GoalStatus) error {
	return nil
}

type fakeEventRepo struct {
	AppendFn func(ctx context.Context, event *domain.CoachingEvent) (*domain.CoachingEvent, error)
	RecentFn func(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.CoachingEvent, error)

	AppendCalls []*domain.CoachingEvent
}

func (f *fakeEventRepo) Append(ctx context.Context, event *domain.CoachingEvent) (*domain.CoachingEvent, error) {
	f.AppendCalls = append(f.AppendCalls, event)
	if f.AppendFn != nil {
		return f.AppendFn(ctx, event)
	}
	stored := *event
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now().UTC()
	return &stored, nil
}

func (f *fakeEventRepo) Recent(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.CoachingEvent, error) {
	if f.RecentFn != nil {
		return f.RecentFn(ctx, clientID, limit)
	}
	return nil, nil
}

// fakeTxnManager runs the callback directly. With FailCommit set it runs the
// callback but reports a commit failure, mimicking an aborted transaction.
type fakeTxnManager struct {
	FailCommit error
	Calls      int
}

func (f *fakeTxnManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.Calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return f.FailCommit
}

type fakeProvider struct {
	CompleteFn func(ctx context.Context, instructions, prompt string) (*llm.Completion, error)
	Model      string

	Prompts []string
}

func (f *fakeProvider) Complete(ctx context.Context, instructions, prompt string) (*llm.Completion, error) {
	f.Prompts = append(f.Prompts, prompt)
	return f.CompleteFn(ctx, instructions, prompt)
}

func (f *fakeProvider) ModelName() string {
	if f.Model == "" {
		return "test-model"
	}
	return f.Model
}

func (f *fakeProvider) Close() error { return nil }

type fakeArchive struct {
	SaveTranscriptFn func(ctx context.Context, objectKey string, body []byte) error

	SavedKeys   []string
	SavedBodies [][]byte
}

func (f *fakeArchive) SaveTranscript(ctx context.Context, objectKey string, body []byte) error {
	f.SavedKeys = append(f.SavedKeys, objectKey)
	f.SavedBodies = append(f.SavedBodies, body)
	if f.SaveTranscriptFn != nil {
		return f.SaveTranscriptFn(ctx, objectKey, body)
	}
	return nil
}

func (f *fakeArchive) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://archive.test/" + objectKey, nil
}

func (f *fakeArchive) DeleteObject(ctx context.Context, objectKey string) error {
	return nil
}

type fakeContextService struct {
	BuildContextFn func(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientContext, error)
}

func (f *fakeContextService) BuildContext(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientContext, error) {
	if f.BuildContextFn != nil {
		return f.BuildContextFn(ctx, clientID)
	}
	return &domain.ClientContext{ClientName: "Test Client"}, nil
}
