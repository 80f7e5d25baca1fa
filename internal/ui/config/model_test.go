package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oox/furniture-console/internal/model"
)

func TestEditedAppliesFormValues(t *testing.T) {
	cfg := &model.AppConfig{}
	cfg.API.BaseURL = "http://localhost:8000"
	cfg.Polling.TasksIntervalSec = 30
	cfg.Display.Theme = "dark"

	m := New(func(*model.AppConfig) error { return nil }, 80, 30)
	m.Start(cfg)
	m.fb.baseURL = " https://erp.oox.example/ "
	m.fb.tasks = "0"
	m.fb.desktop = true

	got := m.Edited()
	assert.Equal(t, "https://erp.oox.example", got.API.BaseURL)
	assert.Zero(t, got.Polling.TasksIntervalSec)
	assert.True(t, got.Notifications.Desktop)
	assert.Equal(t, "dark", got.Display.Theme, "untouched settings are kept")
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL, "original is not modified")
}

func TestValidators(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"https://erp.oox.example", false},
		{"http://10.0.0.5:8000", false},
		{"", true},
		{"erp.oox.example", true},
		{"ftp://erp.oox.example", true},
	}
	for _, tt := range tests {
		err := validateURL(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
		} else {
			assert.NoError(t, err, tt.in)
		}
	}

	assert.NoError(t, validateSeconds("0"))
	assert.NoError(t, validateSeconds(" 15 "))
	assert.Error(t, validateSeconds("-1"))
	assert.Error(t, validateSeconds("soon"))
}
