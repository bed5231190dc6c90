package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"task-tracker/internal/model"
)

func setupCompletionRepo(t *testing.T) (*CompletionRepository, *model.Task) {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))

	task := &model.Task{UserID: user.ID, Title: "run", Type: model.TypeDaily, Status: model.StatusActive}
	require.NoError(t, NewTaskRepository(db).Create(context.Background(), task))

	return NewCompletionRepository(db), task
}

func TestCreateCompletionDuplicateKey(t *testing.T) {
	repo, task := setupCompletionRepo(t)
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	first := &model.Completion{TaskID: task.ID, CompletedDate: date, CompletedTime: time.Now()}
	require.NoError(t, repo.Create(ctx, first))

	// the unique index, not application logic, rejects the second insert
	dup := &model.Completion{TaskID: task.ID, CompletedDate: date, CompletedTime: time.Now()}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateCompletion)

	existing, err := repo.FindByTaskAndDate(ctx, task.ID, date)
	require.NoError(t, err)
	assert.Equal(t, first.ID, existing.ID)
}

func TestExistsOn(t *testing.T) {
	repo, task := setupCompletionRepo(t)
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	exists, err := repo.ExistsOn(ctx, task.ID, date)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, &model.Completion{TaskID: task.ID, CompletedDate: date, CompletedTime: time.Now()}))

	exists, err = repo.ExistsOn(ctx, task.ID, date)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListInRange(t *testing.T) {
	repo, task := setupCompletionRepo(t)
	ctx := context.Background()

	for _, day := range []int{10, 12, 15} {
		date := time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, &model.Completion{TaskID: task.ID, CompletedDate: date, CompletedTime: time.Now()}))
	}

	from := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	asc, err := repo.ListInRange(ctx, task.ID, from, to, false)
	require.NoError(t, err)
	require.Len(t, asc, 2)
	assert.Equal(t, 12, asc[0].CompletedDate.Day())

	desc, err := repo.ListInRange(ctx, task.ID, from, to, true)
	require.NoError(t, err)
	assert.Equal(t, 15, desc[0].CompletedDate.Day())
}

func TestFindOwnedByID(t *testing.T) {
	repo, task := setupCompletionRepo(t)
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	completion := &model.Completion{TaskID: task.ID, CompletedDate: date, CompletedTime: time.Now()}
	require.NoError(t, repo.Create(ctx, completion))

	found, err := repo.FindOwnedByID(ctx, task.UserID, completion.ID)
	require.NoError(t, err)
	assert.Equal(t, completion.ID, found.ID)

	_, err = repo.FindOwnedByID(ctx, task.UserID+1, completion.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
