package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodicTask_RunsAtInterval(t *testing.T) {
	var runs int32
	task := NewPeriodicTask(20*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	})

	task.Start()
	assert.True(t, task.IsRunning())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) >= 3
	}, time.Second, 5*time.Millisecond)

	task.Stop()
	assert.False(t, task.IsRunning())

	stopped := atomic.LoadInt32(&runs)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&runs), "no runs after Stop")
}

func TestPeriodicTask_StartTwiceIsNoop(t *testing.T) {
	var runs int32
	task := NewPeriodicTask(30*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	})

	task.Start()
	task.Start()
	time.Sleep(75 * time.Millisecond)
	task.Stop()
	task.Stop()

	// a second goroutine would double the count
	assert.LessOrEqual(t, atomic.LoadInt32(&runs), int32(3))
}

func TestPeriodicTask_ZeroIntervalNeverStarts(t *testing.T) {
	task := NewPeriodicTask(0, func(ctx context.Context) {
		t.Fatal("task must not run")
	})

	task.Start()
	assert.False(t, task.IsRunning())
	task.Stop()
}

func TestPeriodicTask_StopCancelsContext(t *testing.T) {
	started := make(chan struct{}, 1)
	finished := make(chan struct{}, 1)
	task := NewPeriodicTask(10*time.Millisecond, func(ctx context.Context) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		select {
		case finished <- struct{}{}:
		default:
		}
	})

	task.Start()
	<-started
	task.Stop()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("task context was not cancelled by Stop")
	}
}

func TestPeriodicTask_ResetPostponesRun(t *testing.T) {
	var runs int32
	task := NewPeriodicTask(200*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	})

	task.Start()
	defer task.Stop()

	for i := 0; i < 4; i++ {
		time.Sleep(50 * time.Millisecond)
		task.Reset()
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
}

func TestSleep(t *testing.T) {
	start := time.Now()
	assert.NoError(t, Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, Sleep(ctx, 0), context.Canceled)
	assert.NoError(t, Sleep(context.Background(), 0))
}
