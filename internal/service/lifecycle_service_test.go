package service

import (
	"testing"
	"time"

	"github.com/hanbyul-kim/examhall/internal/model"
	"github.com/hanbyul-kim/examhall/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		isActive bool
		want     model.ExamStatus
	}{
		{name: "deactivated overrides window", now: start.Add(30 * time.Minute), isActive: false, want: model.StatusDraft},
		{name: "deactivated before window", now: start.Add(-time.Hour), isActive: false, want: model.StatusDraft},
		{name: "before start", now: start.Add(-time.Second), isActive: true, want: model.StatusScheduled},
		{name: "exactly at start", now: start, isActive: true, want: model.StatusActive},
		{name: "inside window", now: start.Add(30 * time.Minute), isActive: true, want: model.StatusActive},
		{name: "exactly at end", now: end, isActive: true, want: model.StatusCompleted},
		{name: "after end", now: end.Add(time.Hour), isActive: true, want: model.StatusCompleted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(start, end, tc.now, tc.isActive))
		})
	}
}

func TestRefreshStatuses(t *testing.T) {
	db := newTestDB(t)
	examRepo := repository.NewExamRepository(db)
	svc := NewExamLifecycleService(examRepo)

	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	// Stored statuses deliberately disagree with what the windows derive.
	past := newTestExam(now.Add(-3*time.Hour), now.Add(-2*time.Hour), 45)
	past.Status = model.StatusActive
	live := newTestExam(now.Add(-time.Hour), now.Add(time.Hour), 45)
	live.Status = model.StatusScheduled
	future := newTestExam(now.Add(time.Hour), now.Add(2*time.Hour), 45)
	future.Status = model.StatusDraft
	killed := newTestExam(now.Add(-time.Hour), now.Add(time.Hour), 45)
	killed.IsActive = false
	killed.Status = model.StatusActive

	for _, e := range []*model.Exam{past, live, future, killed} {
		require.NoError(t, examRepo.Create(e))
	}

	require.NoError(t, svc.RefreshStatuses(now))

	wantStatuses := map[uint]model.ExamStatus{
		past.ID:   model.StatusCompleted,
		live.ID:   model.StatusActive,
		future.ID: model.StatusScheduled,
		killed.ID: model.StatusDraft,
	}
	for id, want := range wantStatuses {
		stored, err := examRepo.FindByID(id)
		require.NoError(t, err)
		assert.Equal(t, want, stored.Status, "exam %d", id)
	}

	// A second sweep at the same instant is a no-op.
	require.NoError(t, svc.RefreshStatuses(now))
	for id, want := range wantStatuses {
		stored, err := examRepo.FindByID(id)
		require.NoError(t, err)
		assert.Equal(t, want, stored.Status)
	}
}

func TestGetStatusRepairsStaleRow(t *testing.T) {
	db := newTestDB(t)
	examRepo := repository.NewExamRepository(db)
	svc := NewExamLifecycleService(examRepo)

	now := time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)
	exam := newTestExam(now.Add(-2*time.Hour), now.Add(-time.Hour), 45)
	exam.Status = model.StatusActive // stale: the window already closed
	require.NoError(t, examRepo.Create(exam))

	status, err := svc.GetStatus(exam.ID, now)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, status)

	stored, err := examRepo.FindByID(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, stored.Status)
}

func TestGetStatusUnknownExam(t *testing.T) {
	db := newTestDB(t)
	svc := NewExamLifecycleService(repository.NewExamRepository(db))

	_, err := svc.GetStatus(9999, time.Now())
	assert.ErrorIs(t, err, ErrExamNotFound)
}
