package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockReminderJob struct {
	calls int
	count int
	err   error
	ctx   context.Context
}

func (m *mockReminderJob) EnqueueReminders(ctx context.Context) (int, error) {
	m.calls++
	m.ctx = ctx
	return m.count, m.err
}

func TestNewScheduler(t *testing.T) {
	tests := []struct {
		name          string
		spec          string
		expectedError bool
	}{
		{name: "daily", spec: "0 9 * * *"},
		{name: "descriptor", spec: "@hourly"},
		{name: "invalid", spec: "every morning", expectedError: true},
		{name: "seconds field not accepted", spec: "0 0 9 * * *", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheduler(tt.spec, &mockReminderJob{}, zap.NewNop())
			if tt.expectedError {
				require.Error(t, err)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Len(t, s.cron.Entries(), 1)
		})
	}
}

func TestScheduler_Next(t *testing.T) {
	s, err := NewScheduler("0 9 * * *", &mockReminderJob{}, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	next := s.Next()
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 0, next.Minute())
}

func TestScheduler_RunOnce(t *testing.T) {
	tests := []struct {
		name string
		job  *mockReminderJob
	}{
		{name: "success", job: &mockReminderJob{count: 3}},
		{name: "failure is logged", job: &mockReminderJob{err: errors.New("redis down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheduler("@daily", tt.job, zap.NewNop())
			require.NoError(t, err)

			s.runOnce()

			assert.Equal(t, 1, tt.job.calls)
			_, hasDeadline := tt.job.ctx.Deadline()
			assert.True(t, hasDeadline)
		})
	}
}
