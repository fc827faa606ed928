package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

type captureJob struct {
	name string
	err  error
	done chan struct{}
}

func (j *captureJob) Name() string        { return j.name }
func (j *captureJob) Description() string { return "capture job " + j.name }

func (j *captureJob) Execute(ctx context.Context) error {
	if j.done != nil {
		close(j.done)
	}
	return j.err
}

func TestParseScheduleTime(t *testing.T) {
	tests := []struct {
		input   string
		want    ScheduleTime
		wantErr bool
	}{
		{"02:00", ScheduleTime{2, 0}, false},
		{"23:59", ScheduleTime{23, 59}, false},
		{"7:5", ScheduleTime{7, 5}, false},
		{"24:00", ScheduleTime{}, true},
		{"12:60", ScheduleTime{}, true},
		{"-1:30", ScheduleTime{}, true},
		{"not-a-time", ScheduleTime{}, true},
		{"", ScheduleTime{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseScheduleTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseScheduleTime(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseScheduleTime(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseScheduleTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestScheduleTime_String(t *testing.T) {
	if s := (ScheduleTime{Hour: 2, Minute: 5}).String(); s != "02:05" {
		t.Errorf("String() = %q, want %q", s, "02:05")
	}
}

func TestShouldRun_DedupsSameMinute(t *testing.T) {
	s := New(Config{WorkerCount: 1, QueueSize: 1}, nil)
	st := ScheduleTime{Hour: 2, Minute: 0}
	now := time.Date(2025, 6, 1, 2, 0, 30, 0, time.UTC)

	if !s.shouldRun(now, st) {
		t.Fatal("first check at the scheduled minute should run")
	}
	if s.shouldRun(now, st) {
		t.Error("second check in the same minute ran again")
	}

	nextDay := now.AddDate(0, 0, 1)
	if !s.shouldRun(nextDay, st) {
		t.Error("same time on the next day should run")
	}
}

func TestShouldRun_WrongMinute(t *testing.T) {
	s := New(Config{WorkerCount: 1, QueueSize: 1}, nil)
	st := ScheduleTime{Hour: 2, Minute: 0}
	now := time.Date(2025, 6, 1, 2, 1, 0, 0, time.UTC)

	if s.shouldRun(now, st) {
		t.Error("check outside the scheduled minute should not run")
	}
}

func TestWorkerPool_ProcessesJobs(t *testing.T) {
	pool := NewWorkerPool(2, 0, 10)
	pool.Start()

	done := make(chan struct{})
	if err := pool.Submit(&captureJob{name: "one", done: done}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job was not executed")
	}

	pool.ShutdownWithTimeout(5 * time.Second)
}

func TestWorkerPool_SurvivesJobError(t *testing.T) {
	pool := NewWorkerPool(1, 0, 10)
	pool.Start()

	done := make(chan struct{})
	pool.Submit(&captureJob{name: "failing", err: errors.New("boom")})
	pool.Submit(&captureJob{name: "following", done: done})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job after a failing one was not executed")
	}

	pool.ShutdownWithTimeout(5 * time.Second)
}

func TestWorkerPool_SubmitQueueFull(t *testing.T) {
	pool := NewWorkerPool(1, 0, 1)
	// Not started: the first job fills the queue, the second must be dropped.

	if err := pool.Submit(&captureJob{name: "queued"}); err != nil {
		t.Fatalf("Submit into empty queue failed: %v", err)
	}
	if err := pool.Submit(&captureJob{name: "dropped"}); err == nil {
		t.Error("Submit into full queue succeeded, want drop error")
	}
}

func TestScheduler_TriggerNow(t *testing.T) {
	done := make(chan struct{})
	provider := func(ctx context.Context) ([]Job, error) {
		return []Job{&captureJob{name: "expiry", done: done}}, nil
	}

	s := New(Config{WorkerCount: 1, QueueSize: 4}, provider)
	s.Start()

	s.TriggerNow()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("triggered job was not executed")
	}

	s.Shutdown(5 * time.Second)
}
