package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"univote/internal/election/models"
	"univote/internal/election/store"
	"univote/internal/platform/metrics"
	id "univote/pkg/domain"
	dErrors "univote/pkg/domain-errors"
	"univote/pkg/requestcontext"
)

var (
	syncStart = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	syncEnd   = syncStart.Add(48 * time.Hour)
)

func newService(t *testing.T) (*Service, *store.InMemoryStore) {
	t.Helper()
	memory := store.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(memory, metrics.NewForTesting(), logger), memory
}

func adminContext(now time.Time) context.Context {
	ctx := requestcontext.WithUserID(context.Background(), id.NewUserID())
	ctx = requestcontext.WithAdmin(ctx, true)
	return requestcontext.WithTime(ctx, now)
}

func validCreateRequest() CreateRequest {
	return CreateRequest{
		Title:     "Student Council 2026",
		StartDate: syncStart,
		EndDate:   syncEnd,
		Positions: []string{"President", "Secretary"},
	}
}

func TestCreate_RequiresAdmin(t *testing.T) {
	service, _ := newService(t)
	ctx := requestcontext.WithTime(context.Background(), syncStart)

	_, err := service.Create(ctx, validCreateRequest())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestCreate_Validation(t *testing.T) {
	service, _ := newService(t)
	ctx := adminContext(syncStart.Add(-24 * time.Hour))

	tests := map[string]func(*CreateRequest){
		"empty title":         func(r *CreateRequest) { r.Title = "" },
		"no positions":        func(r *CreateRequest) { r.Positions = nil },
		"blank position":      func(r *CreateRequest) { r.Positions = []string{"President", ""} },
		"duplicate positions": func(r *CreateRequest) { r.Positions = []string{"President", "President"} },
		"start after end":     func(r *CreateRequest) { r.StartDate = syncEnd.Add(time.Hour) },
		"start equals end":    func(r *CreateRequest) { r.StartDate = r.EndDate },
		"private without code": func(r *CreateRequest) {
			r.IsPrivate = true
			r.AccessCode = ""
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			req := validCreateRequest()
			mutate(&req)
			_, err := service.Create(ctx, req)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestCreate_DerivesInitialStatus(t *testing.T) {
	service, _ := newService(t)
	ctx := adminContext(syncStart.Add(time.Hour))

	election, err := service.Create(ctx, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, election.Status)
	assert.False(t, election.ID.IsNil())
}

func TestGet_DerivesStatusFromClock(t *testing.T) {
	service, _ := newService(t)
	created, err := service.Create(adminContext(syncStart.Add(-time.Hour)), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusUpcoming, created.Status)

	// Same stored row reads as completed once the clock passes the end date.
	ctx := requestcontext.WithTime(context.Background(), syncEnd.Add(time.Hour))
	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestGet_NotFound(t *testing.T) {
	service, _ := newService(t)

	_, err := service.Get(context.Background(), id.NewElectionID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestList_OrdersByStartDate(t *testing.T) {
	service, _ := newService(t)
	ctx := adminContext(syncStart.Add(-time.Hour))

	later := validCreateRequest()
	later.Title = "Runoff"
	later.StartDate = syncStart.Add(72 * time.Hour)
	later.EndDate = later.StartDate.Add(24 * time.Hour)

	_, err := service.Create(ctx, later)
	require.NoError(t, err)
	_, err = service.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	elections, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, elections, 2)
	assert.Equal(t, "Student Council 2026", elections[0].Title)
	assert.Equal(t, "Runoff", elections[1].Title)
}

func TestRegisterCandidate(t *testing.T) {
	service, _ := newService(t)
	beforeStart := adminContext(syncStart.Add(-time.Hour))

	election, err := service.Create(beforeStart, validCreateRequest())
	require.NoError(t, err)

	candidate, err := service.RegisterCandidate(beforeStart, RegisterCandidateRequest{
		ElectionID: election.ID,
		Position:   "President",
		Name:       "Alice",
		Platform:   "Better food",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", candidate.Name)

	t.Run("unknown position", func(t *testing.T) {
		_, err := service.RegisterCandidate(beforeStart, RegisterCandidateRequest{
			ElectionID: election.ID,
			Position:   "Treasurer",
			Name:       "Bob",
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("roster frozen after voting starts", func(t *testing.T) {
		afterStart := adminContext(syncStart.Add(time.Hour))
		_, err := service.RegisterCandidate(afterStart, RegisterCandidateRequest{
			ElectionID: election.ID,
			Position:   "President",
			Name:       "Bob",
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeStateConflict))
	})
}

func TestVerifyAccessCode(t *testing.T) {
	service, _ := newService(t)
	ctx := adminContext(syncStart.Add(-time.Hour))

	req := validCreateRequest()
	req.IsPrivate = true
	req.AccessCode = "council-2026"
	private, err := service.Create(ctx, req)
	require.NoError(t, err)

	public, err := service.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	ok, err := service.VerifyAccessCode(ctx, private.ID, "council-2026")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.VerifyAccessCode(ctx, private.ID, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	// Public elections accept anything.
	ok, err = service.VerifyAccessCode(ctx, public.ID, "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSyncStatuses(t *testing.T) {
	service, memory := newService(t)
	ctx := adminContext(syncStart.Add(-time.Hour))

	election, err := service.Create(ctx, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusUpcoming, election.Status)

	// The clock has moved into the voting window; the persisted column lags.
	duringVoting := requestcontext.WithTime(context.Background(), syncStart.Add(time.Hour))
	updated, err := service.SyncStatuses(duringVoting)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	stored, err := memory.GetElection(context.Background(), election.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, stored.Status)

	// A second pass at the same instant changes nothing.
	updated, err = service.SyncStatuses(duringVoting)
	require.NoError(t, err)
	assert.Zero(t, updated)
}
