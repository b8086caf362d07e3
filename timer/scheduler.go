// timer/scheduler.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// tickTask is one scheduled callback. A positive interval makes the task
// periodic until it is cancelled.
type tickTask struct {
	id        int64
	runAt     time.Time
	interval  time.Duration
	callback  func()
	index     int
	cancelled bool
}

type taskQueue []*tickTask

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].runAt.Before(q[j].runAt)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	task := x.(*tickTask)
	task.index = n
	*q = append(*q, task)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	task := old[n-1]
	task.index = -1
	*q = old[0 : n-1]
	return task
}

// Scheduler runs cancellable periodic tasks off a single coarse ticker.
// Task ids are the opaque tick handles held by the countdown engine.
type Scheduler struct {
	queue      taskQueue
	tasks      map[int64]*tickTask
	mutex      sync.Mutex
	nextID     int64
	resolution time.Duration
	stopChan   chan struct{}
	stopOnce   sync.Once
}

func NewScheduler(resolution time.Duration) *Scheduler {
	if resolution <= 0 {
		resolution = 100 * time.Millisecond
	}
	s := &Scheduler{
		queue:      make(taskQueue, 0),
		tasks:      make(map[int64]*tickTask),
		nextID:     1,
		resolution: resolution,
		stopChan:   make(chan struct{}),
	}
	heap.Init(&s.queue)
	go s.process()
	return s
}

// Schedule registers a callback to run after delay, then every interval
// if interval is positive. Returns the task handle.
func (s *Scheduler) Schedule(delay, interval time.Duration, callback func()) int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task := &tickTask{
		id:       s.nextID,
		runAt:    time.Now().Add(delay),
		interval: interval,
		callback: callback,
	}
	s.nextID++

	s.tasks[task.id] = task
	heap.Push(&s.queue, task)
	return task.id
}

// Cancel stops a task. A tick already dispatched may still run once
// after Cancel returns; callers that care must guard in the callback.
func (s *Scheduler) Cancel(taskID int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return
	}
	task.cancelled = true
	delete(s.tasks, taskID)
	if task.index >= 0 {
		heap.Remove(&s.queue, task.index)
	}
}

// Stop terminates the scheduling loop. Pending tasks never fire.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

func (s *Scheduler) process() {
	ticker := time.NewTicker(s.resolution)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, task := range s.due() {
				go task.callback()
			}
		case <-s.stopChan:
			return
		}
	}
}

// due pops every task whose run time has passed and reschedules the
// periodic ones.
func (s *Scheduler) due() []*tickTask {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	var fired []*tickTask

	for s.queue.Len() > 0 {
		task := s.queue[0]
		if task.runAt.After(now) {
			break
		}
		heap.Pop(&s.queue)

		if task.cancelled {
			continue
		}
		fired = append(fired, task)

		if task.interval > 0 {
			task.runAt = now.Add(task.interval)
			heap.Push(&s.queue, task)
		} else {
			delete(s.tasks, task.id)
		}
	}
	return fired
}
