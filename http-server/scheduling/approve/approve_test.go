package approve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"production-scheduler/internal/service/scheduling"
	"production-scheduler/internal/storage"
)

type MockApprover struct {
	mock.Mock
}

func (m *MockApprover) ApproveEntry(ctx context.Context, id int64) (*storage.ScheduleEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ScheduleEntry), args.Error(1)
}

func TestApproveSchedule(t *testing.T) {
	tests := []struct {
		name     string
		param    string
		entry    *storage.ScheduleEntry
		err      error
		wantCode int
	}{
		{
			name:     "approved",
			param:    "3",
			entry:    &storage.ScheduleEntry{ID: 3, Status: storage.SchedulePendingApproval, IsApproved: true},
			wantCode: http.StatusOK,
		},
		{name: "not found", param: "3", err: fmt.Errorf("x: %w", storage.ErrNotFound), wantCode: http.StatusNotFound},
		{name: "locked order", param: "3", err: fmt.Errorf("x: %w", scheduling.ErrOrderLocked), wantCode: http.StatusForbidden},
		{name: "not pending", param: "3", err: fmt.Errorf("x: %w", scheduling.ErrNotPendingApproval), wantCode: http.StatusConflict},
		{name: "storage error", param: "3", err: errors.New("db down"), wantCode: http.StatusInternalServerError},
		{name: "bad id", param: "x", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approver := new(MockApprover)
			if tt.param != "x" {
				approver.On("ApproveEntry", mock.Anything, int64(3)).Return(tt.entry, tt.err)
			}

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.param)
			req := httptest.NewRequest(http.MethodPost, "/api/scheduling/schedule/"+tt.param+"/approve", nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rr := httptest.NewRecorder()

			ApproveSchedule(slog.Default(), approver).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusOK {
				assert.Contains(t, rr.Body.String(), `"is_approved":true`)
			}
			approver.AssertExpectations(t)
		})
	}
}
