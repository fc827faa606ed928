// Package scheduler runs recurring maintenance jobs at configured times of
// day through a worker pool.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// ScheduleTime is a time of day at which jobs run.
type ScheduleTime struct {
	Hour   int
	Minute int
}

// ParseScheduleTime parses a "HH:MM" string.
func ParseScheduleTime(s string) (ScheduleTime, error) {
	var st ScheduleTime
	if _, err := fmt.Sscanf(s, "%d:%d", &st.Hour, &st.Minute); err != nil {
		return st, fmt.Errorf("invalid schedule time %q: %w", s, err)
	}
	if st.Hour < 0 || st.Hour > 23 {
		return st, fmt.Errorf("invalid schedule hour %d", st.Hour)
	}
	if st.Minute < 0 || st.Minute > 59 {
		return st, fmt.Errorf("invalid schedule minute %d", st.Minute)
	}
	return st, nil
}

func (st ScheduleTime) String() string {
	return fmt.Sprintf("%02d:%02d", st.Hour, st.Minute)
}

// Config configures the scheduler.
type Config struct {
	ScheduleTimes []ScheduleTime
	RunOnStartup  bool
	WorkerCount   int
	JobDelay      time.Duration
	QueueSize     int
}

// JobProvider builds the set of jobs to run at each scheduled tick.
type JobProvider func(ctx context.Context) ([]Job, error)

// Scheduler triggers the job provider at configured times of day and feeds
// the resulting jobs into a worker pool.
type Scheduler struct {
	workerPool    *WorkerPool
	scheduleTimes []ScheduleTime
	runOnStartup  bool
	jobProvider   JobProvider

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	lastRunDate map[string]bool
}

// New creates a scheduler with its own worker pool.
func New(cfg Config, provider JobProvider) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		workerPool:    NewWorkerPool(cfg.WorkerCount, cfg.JobDelay, cfg.QueueSize),
		scheduleTimes: cfg.ScheduleTimes,
		runOnStartup:  cfg.RunOnStartup,
		jobProvider:   provider,
		ctx:           ctx,
		cancel:        cancel,
		lastRunDate:   make(map[string]bool),
	}
}

// Start launches the worker pool and the schedule loop.
func (s *Scheduler) Start() {
	s.workerPool.Start()

	times := make([]string, 0, len(s.scheduleTimes))
	for _, st := range s.scheduleTimes {
		times = append(times, st.String())
	}
	log.Printf("Scheduler started, run times: %v", times)

	if s.runOnStartup {
		log.Println("Scheduler: running jobs on startup")
		s.runJobs()
	}

	s.wg.Add(1)
	go s.scheduleLoop()
}

// scheduleLoop checks every minute whether a scheduled time has been reached.
func (s *Scheduler) scheduleLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			log.Println("Scheduler: schedule loop stopped")
			return
		case now := <-ticker.C:
			for _, st := range s.scheduleTimes {
				if s.shouldRun(now, st) {
					log.Printf("Scheduler: reached scheduled time %s", st)
					s.runJobs()
				}
			}
		}
	}
}

// shouldRun reports whether the scheduled time matches now and has not run
// yet today.
func (s *Scheduler) shouldRun(now time.Time, st ScheduleTime) bool {
	if now.Hour() != st.Hour || now.Minute() != st.Minute {
		return false
	}

	key := fmt.Sprintf("%s-%s", now.Format("2006-01-02"), st)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastRunDate[key] {
		return false
	}
	s.lastRunDate[key] = true
	return true
}

// runJobs asks the provider for the current job set and submits it.
func (s *Scheduler) runJobs() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	jobs, err := s.jobProvider(ctx)
	if err != nil {
		log.Printf("Scheduler: failed to build jobs: %v", err)
		return
	}
	if len(jobs) == 0 {
		log.Println("Scheduler: no jobs to run")
		return
	}

	s.workerPool.SubmitBatch(jobs)
}

// TriggerNow runs the job set immediately, outside the schedule.
func (s *Scheduler) TriggerNow() {
	log.Println("Scheduler: manual trigger")
	s.runJobs()
}

// Shutdown stops the schedule loop and drains the worker pool.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	log.Println("Scheduler: shutting down")

	s.cancel()
	s.wg.Wait()

	s.workerPool.ShutdownWithTimeout(timeout)

	log.Println("Scheduler: shutdown complete")
}
