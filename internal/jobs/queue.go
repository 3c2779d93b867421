package jobs

import "log"

// Job is one unit of background work, identified by kind plus entity ids.
type Job struct {
	Kind string
	IDs  []int64
}

// Queue is an in-process fire-and-forget job queue. Enqueue never
// blocks: when the buffer is full the job is dropped and logged, which
// matches the no-guaranteed-delivery contract of notifications.
type Queue struct {
	ch chan Job
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 256
	}
	return &Queue{ch: make(chan Job, size)}
}

func (q *Queue) Enqueue(kind string, ids ...int64) {
	select {
	case q.ch <- Job{Kind: kind, IDs: ids}:
	default:
		log.Printf("[jobs][drop] queue full kind=%s ids=%v", kind, ids)
	}
}

func (q *Queue) jobs() <-chan Job {
	return q.ch
}

// Close stops accepting work; workers drain what is left.
func (q *Queue) Close() {
	close(q.ch)
}
