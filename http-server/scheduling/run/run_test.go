package run

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"production-scheduler/internal/service/scheduling"
	"production-scheduler/internal/storage"
)

type MockAutoScheduler struct {
	mock.Mock
}

func (m *MockAutoScheduler) RunAutoSchedule(ctx context.Context) (*scheduling.RunResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.RunResult), args.Error(1)
}

func TestAutoSchedule_Success(t *testing.T) {
	scheduler := new(MockAutoScheduler)
	scheduler.On("RunAutoSchedule", mock.Anything).Return(&scheduling.RunResult{
		RunID:     "run-1",
		Processed: 2,
		Recommendations: []storage.Recommendation{
			{Type: storage.RecommendOutsource, Reason: "No available machine for MIX", SuggestedBy: storage.SuggestedBySystem},
		},
		Failures: []scheduling.OrderFailure{},
	}, nil)

	handler := AutoSchedule(slog.Default(), scheduler, time.Second)

	req := httptest.NewRequest(http.MethodPost, "/api/scheduling/auto-schedule", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, "Auto-scheduling completed", resp.Message)
	assert.Equal(t, "run-1", resp.RunID)
	assert.Equal(t, 2, resp.Processed)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, storage.RecommendOutsource, resp.Recommendations[0].Type)

	scheduler.AssertExpectations(t)
}

func TestAutoSchedule_Error(t *testing.T) {
	scheduler := new(MockAutoScheduler)
	scheduler.On("RunAutoSchedule", mock.Anything).Return(nil, errors.New("db down"))

	handler := AutoSchedule(slog.Default(), scheduler, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/scheduling/auto-schedule", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Auto-scheduling failed")
}
