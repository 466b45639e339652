package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle of an InstallTask.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
)

// InstallTask is a background default-agent install started by a sign-in.
type InstallTask struct {
	ID     string
	UserID string

	mu         sync.Mutex
	status     TaskStatus
	err        error
	startedAt  time.Time
	finishedAt time.Time
	done       chan struct{}
}

func newInstallTask(userID string) *InstallTask {
	return &InstallTask{
		ID:     uuid.NewString(),
		UserID: userID,
		status: TaskPending,
		done:   make(chan struct{}),
	}
}

func (t *InstallTask) run(ctx context.Context, fn func(context.Context) error) {
	t.mu.Lock()
	t.status = TaskRunning
	t.startedAt = time.Now()
	t.mu.Unlock()

	err := fn(ctx)

	t.mu.Lock()
	t.err = err
	t.finishedAt = time.Now()
	if err != nil {
		t.status = TaskFailed
	} else {
		t.status = TaskSucceeded
	}
	t.mu.Unlock()
	close(t.done)
}

func (t *InstallTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Err is the install failure, nil while running or after success.
func (t *InstallTask) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Duration of a finished task; zero until then.
func (t *InstallTask) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finishedAt.IsZero() {
		return 0
	}
	return t.finishedAt.Sub(t.startedAt)
}

// Done is closed once the task has finished.
func (t *InstallTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx ends, returning the task error
// or ctx.Err().
func (t *InstallTask) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
