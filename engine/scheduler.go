package engine

import (
	"sort"
	"time"
)

// TaskID identifies a scheduled task. The zero TaskID is never issued.
type TaskID uint64

type task struct {
	id  TaskID
	due time.Duration
	fn  func()
}

// Scheduler runs timed tasks on a virtual clock. Time only moves when the
// owner calls Advance, and every task runs on the caller's goroutine, so the
// engine stays single threaded.
type Scheduler struct {
	now    time.Duration
	nextID TaskID
	tasks  []task
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once d has elapsed. Tasks due at the same time run
// in the order they were scheduled.
func (s *Scheduler) After(d time.Duration, fn func()) TaskID {
	if fn == nil {
		return 0
	}
	if d < 0 {
		d = 0
	}
	s.nextID++
	t := task{id: s.nextID, due: s.now + d, fn: fn}
	i := sort.Search(len(s.tasks), func(i int) bool { return s.tasks[i].due > t.due })
	s.tasks = append(s.tasks, task{})
	copy(s.tasks[i+1:], s.tasks[i:])
	s.tasks[i] = t
	return t.id
}

// Cancel removes a pending task. It reports whether the task was pending.
func (s *Scheduler) Cancel(id TaskID) bool {
	if id == 0 {
		return false
	}
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() {
	s.tasks = nil
}

// Pending returns the number of tasks waiting to fire.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Advance moves the clock forward by dt and runs every task that comes due,
// including tasks scheduled by tasks that fire during this call. It returns
// the number of tasks run.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	fired := 0
	for len(s.tasks) > 0 && s.tasks[0].due <= target {
		t := s.tasks[0]
		s.tasks = s.tasks[1:]
		s.now = t.due
		t.fn()
		fired++
	}
	s.now = target
	return fired
}
