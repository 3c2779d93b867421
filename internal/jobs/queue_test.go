package jobs

import "testing"

func TestEnqueueNeverBlocks(t *testing.T) {
	q := NewQueue(1)
	q.Enqueue("kind", 1)
	// buffer is full; this must drop instead of blocking the caller
	q.Enqueue("kind", 2)

	q.Close()
	var drained []Job
	for job := range q.jobs() {
		drained = append(drained, job)
	}
	if len(drained) != 1 || drained[0].IDs[0] != 1 {
		t.Fatalf("drained = %+v, want only the first job", drained)
	}
}

func TestQueueDefaultSize(t *testing.T) {
	q := NewQueue(0)
	if cap(q.ch) != 256 {
		t.Fatalf("cap = %d, want the default", cap(q.ch))
	}
}
