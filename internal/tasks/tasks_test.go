package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTaskClient struct {
	err   error
	tasks []*asynq.Task
	opts  [][]asynq.Option
}

func (m *mockTaskClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tasks = append(m.tasks, task)
	m.opts = append(m.opts, opts)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func TestEnqueuer_EnqueuePurchaseConfirmation(t *testing.T) {
	tests := []struct {
		name          string
		client        *mockTaskClient
		expectedError bool
		expectedTasks int
	}{
		{
			name:          "success",
			client:        &mockTaskClient{},
			expectedTasks: 1,
		},
		{
			name:   "duplicate task id is not an error",
			client: &mockTaskClient{err: asynq.ErrTaskIDConflict},
		},
		{
			name:          "redis error",
			client:        &mockTaskClient{err: errors.New("connection refused")},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enqueuer := &Enqueuer{client: tt.client}

			err := enqueuer.EnqueuePurchaseConfirmation(context.Background(), 3, 7)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), TypePurchaseConfirmation)
				return
			}
			require.NoError(t, err)
			require.Len(t, tt.client.tasks, tt.expectedTasks)
			if tt.expectedTasks == 0 {
				return
			}

			task := tt.client.tasks[0]
			assert.Equal(t, TypePurchaseConfirmation, task.Type())
			var payload PurchaseConfirmationPayload
			require.NoError(t, json.Unmarshal(task.Payload(), &payload))
			assert.Equal(t, PurchaseConfirmationPayload{UserID: 3, CourseID: 7}, payload)

			var queue, taskID string
			for _, opt := range tt.client.opts[0] {
				switch opt.Type() {
				case asynq.QueueOpt:
					queue = opt.Value().(string)
				case asynq.TaskIDOpt:
					taskID = opt.Value().(string)
				}
			}
			assert.Equal(t, QueueCritical, queue)
			assert.Equal(t, "purchase-confirmation:3:7", taskID)
		})
	}
}

func TestEnqueuer_EnqueueLessonReminder(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := &mockTaskClient{}
		enqueuer := &Enqueuer{client: client}

		err := enqueuer.EnqueueLessonReminder(context.Background(), 5)

		require.NoError(t, err)
		require.Len(t, client.tasks, 1)
		assert.Equal(t, TypeLessonReminder, client.tasks[0].Type())
		assert.JSONEq(t, `{"user_id":5}`, string(client.tasks[0].Payload()))
	})

	t.Run("error", func(t *testing.T) {
		enqueuer := &Enqueuer{client: &mockTaskClient{err: errors.New("connection refused")}}

		err := enqueuer.EnqueueLessonReminder(context.Background(), 5)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}
