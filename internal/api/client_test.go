package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oox/furniture-console/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, 5*time.Second)
	c.SetToken("secret-token")
	return c
}

func TestPerformTaskActionSendsPayloadAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tasks/42/action/", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "reject", body["action"])
		assert.Equal(t, "scratched panel", body["reason"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"new_status":"assigned","time_elapsed":120,"can_start":true}`))
	})

	res, err := c.PerformTaskAction(context.Background(), "42", model.ActionReject, "scratched panel")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, model.TaskAssigned, res.NewStatus)
	require.NotNil(t, res.TimeElapsed)
	assert.Equal(t, int64(120), *res.TimeElapsed)
	require.NotNil(t, res.CanStart)
	assert.True(t, *res.CanStart)
	assert.Nil(t, res.CanPause)
}

func TestGetRealTimeUpdatesSinceParam(t *testing.T) {
	var gotSince atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSince.Store(r.URL.Query().Get("since"))
		_, _ = w.Write([]byte(`{"has_updates":false}`))
	})

	_, err := c.GetRealTimeUpdates(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "", gotSince.Load())

	since := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	_, err = c.GetRealTimeUpdates(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01T09:30:00.000Z", gotSince.Load())
}

func TestUnauthorizedReturnsAuthError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.ListTasks(context.Background(), TaskFilter{})
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestErrorBodyMessageSurfaces(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "detail", body: `{"detail":"Task is not running"}`, want: "Task is not running"},
		{name: "error", body: `{"error":"Cannot pause"}`, want: "Cannot pause"},
		{name: "field map", body: `{"phone":["This field is required."]}`, want: "phone: This field is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.PerformTaskAction(context.Background(), "1", model.ActionPause, "")
			require.Error(t, err)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestRateLimitRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	tasks, err := c.ListTasks(context.Background(), TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, int32(2), calls.Load())
}

func TestListDecodesPaginatedEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "started", r.URL.Query().Get("status"))
		assert.Equal(t, "7", r.URL.Query().Get("order"))
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":3,"title":"Sand tabletop","status":"started","priority":"high"}]}`))
	})

	tasks, err := c.ListTasks(context.Background(), TaskFilter{Status: model.TaskStarted, OrderID: "7"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, model.ID("3"), tasks[0].ID)
	assert.Equal(t, model.TaskPriorityHigh, tasks[0].Priority)
}

func TestFetchFileReturnsRawBytes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media/products/chair.png", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})

	data, err := c.FetchFile(context.Background(), "/media/products/chair.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}
