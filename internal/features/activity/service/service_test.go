package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "airdrop-backend/internal/common/errors"
	"airdrop-backend/internal/features/activity/models"
	"airdrop-backend/internal/features/activity/repository"
	taskmodels "airdrop-backend/internal/features/task/models"
	taskrepo "airdrop-backend/internal/features/task/repository"
	usermodels "airdrop-backend/internal/features/user/models"
	userrepo "airdrop-backend/internal/features/user/repository"
)

type memActivityRepo struct {
	activities map[string]*models.UserActivity
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{activities: make(map[string]*models.UserActivity)}
}

func key(telegramUID, taskID string) string {
	return telegramUID + "/" + taskID
}

func (r *memActivityRepo) Insert(_ context.Context, activity *models.UserActivity) (bool, error) {
	k := key(activity.TelegramUID, activity.TaskID)
	if _, ok := r.activities[k]; ok {
		return false, nil
	}
	stored := *activity
	r.activities[k] = &stored
	return true, nil
}

func (r *memActivityRepo) MarkCompleted(_ context.Context, telegramUID, taskID string, completedAt time.Time) (bool, error) {
	activity, ok := r.activities[key(telegramUID, taskID)]
	if !ok || activity.Status == models.StatusCompleted {
		return false, nil
	}
	activity.Status = models.StatusCompleted
	activity.CompletedAt = &completedAt
	return true, nil
}

func (r *memActivityRepo) GetByUserAndTask(_ context.Context, telegramUID, taskID string) (*models.UserActivity, error) {
	activity, ok := r.activities[key(telegramUID, taskID)]
	if !ok {
		return nil, repository.ErrActivityNotFound
	}
	copied := *activity
	return &copied, nil
}

func (r *memActivityRepo) ListByUser(_ context.Context, telegramUID string) ([]*models.UserActivity, error) {
	var out []*models.UserActivity
	for _, activity := range r.activities {
		if activity.TelegramUID == telegramUID {
			copied := *activity
			out = append(out, &copied)
		}
	}
	return out, nil
}

type memTaskRepo struct {
	tasks map[string]*taskmodels.Task
}

func newMemTaskRepo(tasks ...*taskmodels.Task) *memTaskRepo {
	r := &memTaskRepo{tasks: make(map[string]*taskmodels.Task)}
	for _, task := range tasks {
		r.tasks[task.TaskID] = task
	}
	return r
}

func (r *memTaskRepo) Create(_ context.Context, task *taskmodels.Task) error {
	if _, ok := r.tasks[task.TaskID]; ok {
		return taskrepo.ErrTaskExists
	}
	r.tasks[task.TaskID] = task
	return nil
}

func (r *memTaskRepo) GetByTaskID(_ context.Context, taskID string) (*taskmodels.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok {
		return nil, taskrepo.ErrTaskNotFound
	}
	return task, nil
}

func (r *memTaskRepo) ListActive(_ context.Context) ([]*taskmodels.Task, error) {
	var out []*taskmodels.Task
	for _, task := range r.tasks {
		if task.IsActive {
			out = append(out, task)
		}
	}
	return out, nil
}

type memUserRepo struct {
	points map[string]int64
}

func newMemUserRepo(uids ...string) *memUserRepo {
	r := &memUserRepo{points: make(map[string]int64)}
	for _, uid := range uids {
		r.points[uid] = 0
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *usermodels.User) error {
	r.points[user.TelegramUID] = user.Points
	return nil
}

func (r *memUserRepo) GetByTelegramUID(_ context.Context, telegramUID string) (*usermodels.User, error) {
	points, ok := r.points[telegramUID]
	if !ok {
		return nil, userrepo.ErrUserNotFound
	}
	return &usermodels.User{TelegramUID: telegramUID, Points: points}, nil
}

func (r *memUserRepo) AddPoints(_ context.Context, telegramUID string, delta int64) error {
	if _, ok := r.points[telegramUID]; !ok {
		return userrepo.ErrUserNotFound
	}
	r.points[telegramUID] += delta
	return nil
}

func (r *memUserRepo) ListByRefBy(context.Context, string) ([]*usermodels.User, error) {
	return nil, nil
}

type stubVerifier struct {
	member bool
	err    error
	calls  int
}

func (v *stubVerifier) VerifyGroupMembership(context.Context, string) (bool, error) {
	v.calls++
	return v.member, v.err
}

type noopCache struct{}

func (noopCache) InvalidateUser(context.Context, string) error { return nil }

func joinTask(reward int64) *taskmodels.Task {
	return &taskmodels.Task{
		TaskID:   "task1",
		TaskType: taskmodels.TaskTypeTelegramJoin,
		Reward:   reward,
		IsActive: true,
	}
}

func TestRecordActivityIdempotent(t *testing.T) {
	activities := newMemActivityRepo()
	svc := NewActivityService(activities, newMemTaskRepo(), newMemUserRepo(), &stubVerifier{}, noopCache{})

	input := models.RecordActivityInput{TelegramUID: "100", TaskID: "task1"}

	first, created, err := svc.RecordActivity(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotNil(t, first.CompletedAt)

	second, created, err := svc.RecordActivity(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, activities.activities, 1)
}

func TestVerifyAndCreditCreditsOnce(t *testing.T) {
	users := newMemUserRepo("100")
	verifier := &stubVerifier{member: true}
	svc := NewActivityService(newMemActivityRepo(), newMemTaskRepo(joinTask(500)), users, verifier, noopCache{})

	first, err := svc.VerifyAndCredit(context.Background(), "100", "task1")
	require.NoError(t, err)
	assert.True(t, first.Verified)
	assert.True(t, first.Credited)
	assert.Equal(t, int64(500), first.PointsAwarded)
	assert.Equal(t, int64(500), users.points["100"])

	second, err := svc.VerifyAndCredit(context.Background(), "100", "task1")
	require.NoError(t, err)
	assert.True(t, second.Verified)
	assert.False(t, second.Credited)
	assert.True(t, second.AlreadyCredited)
	assert.Equal(t, int64(500), users.points["100"], "points must not move twice")
	assert.Equal(t, 2, verifier.calls)
}

func TestVerifyAndCreditCompletesPendingActivity(t *testing.T) {
	activities := newMemActivityRepo()
	users := newMemUserRepo("100")
	svc := NewActivityService(activities, newMemTaskRepo(joinTask(500)), users, &stubVerifier{member: true}, noopCache{})

	// Progress was reported earlier without verification.
	_, _, err := svc.RecordActivity(context.Background(), models.RecordActivityInput{TelegramUID: "100", TaskID: "task1"})
	require.NoError(t, err)

	result, err := svc.VerifyAndCredit(context.Background(), "100", "task1")
	require.NoError(t, err)
	assert.True(t, result.Credited)
	assert.Equal(t, int64(500), users.points["100"])

	activity, err := activities.GetByUserAndTask(context.Background(), "100", "task1")
	require.NoError(t, err)
	assert.True(t, activity.IsCompleted())
	assert.Len(t, activities.activities, 1)
}

func TestVerifyAndCreditNotAMember(t *testing.T) {
	activities := newMemActivityRepo()
	users := newMemUserRepo("100")
	svc := NewActivityService(activities, newMemTaskRepo(joinTask(500)), users, &stubVerifier{member: false}, noopCache{})

	result, err := svc.VerifyAndCredit(context.Background(), "100", "task1")
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.False(t, result.Credited)
	assert.Empty(t, activities.activities, "failed verification must not record anything")
	assert.Zero(t, users.points["100"])
}

func TestVerifyAndCreditUnknownTask(t *testing.T) {
	svc := NewActivityService(newMemActivityRepo(), newMemTaskRepo(), newMemUserRepo(), &stubVerifier{member: true}, noopCache{})

	_, err := svc.VerifyAndCredit(context.Background(), "100", "missing")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeTaskNotFound, appErr.Code)
}

func TestVerifyAndCreditInactiveTask(t *testing.T) {
	task := joinTask(500)
	task.IsActive = false
	svc := NewActivityService(newMemActivityRepo(), newMemTaskRepo(task), newMemUserRepo(), &stubVerifier{member: true}, noopCache{})

	_, err := svc.VerifyAndCredit(context.Background(), "100", "task1")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeTaskInactive, appErr.Code)
}

func TestVerifyAndCreditUnsupportedTaskType(t *testing.T) {
	task := &taskmodels.Task{TaskID: "task2", TaskType: taskmodels.TaskTypeTelegramMessage, Reward: 100, IsActive: true}
	verifier := &stubVerifier{member: true}
	svc := NewActivityService(newMemActivityRepo(), newMemTaskRepo(task), newMemUserRepo(), verifier, noopCache{})

	_, err := svc.VerifyAndCredit(context.Background(), "100", "task2")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeTaskType, appErr.Code)
	assert.Zero(t, verifier.calls)
}

func TestVerifyAndCreditVerifierFailure(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("telegram down")}
	activities := newMemActivityRepo()
	svc := NewActivityService(activities, newMemTaskRepo(joinTask(500)), newMemUserRepo("100"), verifier, noopCache{})

	_, err := svc.VerifyAndCredit(context.Background(), "100", "task1")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeTelegramAPI, appErr.Code)
	assert.Empty(t, activities.activities)
}

func TestVerifyAndCreditUnknownUser(t *testing.T) {
	activities := newMemActivityRepo()
	svc := NewActivityService(activities, newMemTaskRepo(joinTask(500)), newMemUserRepo(), &stubVerifier{member: true}, noopCache{})

	result, err := svc.VerifyAndCredit(context.Background(), "999", "task1")
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.False(t, result.Credited, "no profile means nothing to credit")
	assert.Len(t, activities.activities, 1, "completion is still recorded")
}

func TestListActivities(t *testing.T) {
	svc := NewActivityService(newMemActivityRepo(), newMemTaskRepo(), newMemUserRepo(), &stubVerifier{}, noopCache{})

	_, _, err := svc.RecordActivity(context.Background(), models.RecordActivityInput{TelegramUID: "100", TaskID: "task1"})
	require.NoError(t, err)
	_, _, err = svc.RecordActivity(context.Background(), models.RecordActivityInput{TelegramUID: "100", TaskID: "task2"})
	require.NoError(t, err)

	activities, err := svc.ListActivities(context.Background(), "100")
	require.NoError(t, err)
	assert.Len(t, activities, 2)
}
