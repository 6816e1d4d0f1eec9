package parallel

// Task is a completion handle for scheduled work.
//
// A Task completes exactly once. Waiting is the only blocking operation;
// scheduled work cannot be cancelled. A nil *Task is treated as already
// complete, so "no work" can be expressed as a nil handle.
type Task struct {
	done chan struct{}
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

// Completed returns a task that is already complete.
func Completed() *Task {
	t := newTask()
	close(t.done)
	return t
}

// Wait blocks until the task completes.
func (t *Task) Wait() {
	if t == nil {
		return
	}
	<-t.done
}

// Done reports whether the task has completed without blocking.
func (t *Task) Done() bool {
	if t == nil {
		return true
	}
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Combine returns a task that completes once every given task completed.
// Nil tasks are ignored. With no pending input it returns a completed task.
func Combine(tasks ...*Task) *Task {
	pending := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Done() {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return Completed()
	}

	combined := newTask()
	go func() {
		for _, t := range pending {
			t.Wait()
		}
		close(combined.done)
	}()
	return combined
}

// ParallelFor schedules fn(i) for every i in [0, n) once all deps have
// completed. Indices are grouped into chunks of batch consecutive values;
// each chunk is one work item, run sequentially on a single worker.
//
// The returned task completes when every fn call returned. A non-positive
// n yields a task that completes with its dependencies.
//
// fn must not touch state shared with other indices unless it synchronizes
// itself.
func (p *WorkerPool) ParallelFor(n, batch int, fn func(i int), deps ...*Task) *Task {
	if batch <= 0 {
		batch = 1
	}
	if n <= 0 {
		return Combine(deps...)
	}

	work := make([]func(), 0, (n+batch-1)/batch)
	for start := 0; start < n; start += batch {
		end := min(start+batch, n)
		work = append(work, func() {
			for i := start; i < end; i++ {
				fn(i)
			}
		})
	}

	task := newTask()
	go func() {
		for _, d := range deps {
			d.Wait()
		}
		if len(work) == 1 {
			// One chunk needs no fan-out; the task completes on the worker.
			p.Submit(func() {
				work[0]()
				close(task.done)
			})
			return
		}
		p.ExecuteAll(work)
		close(task.done)
	}()
	return task
}
