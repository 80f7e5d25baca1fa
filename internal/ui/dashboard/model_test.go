package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oox/furniture-console/internal/analytics"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/poll"
)

func TestViewStates(t *testing.T) {
	m := New(120, 40)
	assert.Contains(t, m.View(), "Loading dashboard")

	m.SetSnapshot(poll.Snapshot[Data]{Err: errors.New("timeout")})
	assert.Contains(t, m.View(), "Could not load dashboard: timeout")

	m.SetSnapshot(poll.Snapshot[Data]{
		HasData: true,
		Data: Data{
			Report: &analytics.Report{
				Orders:      3,
				Revenue:     1500,
				Workers:     []analytics.WorkerTime{{WorkerID: "7", Worker: "Lena", Tasks: 2, Seconds: 5400}},
				TopProducts: []analytics.ProductCount{{Product: "Chair", Quantity: 10}},
				GeneratedAt: time.Now(),
			},
			Summary: &model.WarehouseSummary{
				TotalOrders: 2,
				Buckets:     map[string][]model.Order{model.UrgencyOverdue: {{ID: "1"}}},
			},
		},
	})
	v := m.View()
	assert.Contains(t, v, "1500.00")
	assert.Contains(t, v, "Lena")
	assert.Contains(t, v, "1h30m")
	assert.Contains(t, v, "overdue 1")
	assert.Contains(t, v, "Chair")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
