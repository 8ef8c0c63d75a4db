// Package driver sequences the solver core: the per-stage task graph, the
// multistage integrator, boundary application, and the outer step loop.
package driver

import (
	"fmt"
	"sync"
)

// TaskList is a directed acyclic graph of named phases with declared data
// dependencies, executed by a generic scheduler. Tasks whose dependencies
// have all completed run concurrently; a task error aborts scheduling of
// tasks that have not started.
type TaskList struct {
	tasks []*task
	index map[string]int

	mu       sync.Mutex
	order    []string // completion order, kept for ordering checks
	firstErr error
	aborted  bool
}

type task struct {
	name string
	deps []string
	fn   func() error
	done chan struct{}
}

func NewTaskList() *TaskList {
	return &TaskList{index: make(map[string]int)}
}

// Add registers a named task depending on previously added tasks. Unknown
// dependencies and duplicate names are programmer errors and fail loudly.
func (tl *TaskList) Add(name string, fn func() error, deps ...string) {
	if _, dup := tl.index[name]; dup {
		panic(fmt.Sprintf("driver: duplicate task %q", name))
	}
	for _, d := range deps {
		if _, ok := tl.index[d]; !ok {
			panic(fmt.Sprintf("driver: task %q depends on unknown task %q", name, d))
		}
	}
	tl.index[name] = len(tl.tasks)
	tl.tasks = append(tl.tasks, &task{
		name: name,
		deps: deps,
		fn:   fn,
		done: make(chan struct{}),
	})
}

// Run executes the graph and blocks until every task has either completed or
// been skipped due to an upstream error. Returns the first error.
func (tl *TaskList) Run() error {
	var wg sync.WaitGroup
	for _, t := range tl.tasks {
		wg.Add(1)
		go func(t *task) {
			defer wg.Done()
			defer close(t.done)
			for _, d := range t.deps {
				<-tl.tasks[tl.index[d]].done
			}
			tl.mu.Lock()
			skip := tl.aborted
			tl.mu.Unlock()
			if skip {
				return
			}
			if err := t.fn(); err != nil {
				tl.mu.Lock()
				if tl.firstErr == nil {
					tl.firstErr = fmt.Errorf("task %s: %w", t.name, err)
				}
				tl.aborted = true
				tl.mu.Unlock()
				return
			}
			tl.mu.Lock()
			tl.order = append(tl.order, t.name)
			tl.mu.Unlock()
		}(t)
	}
	wg.Wait()
	return tl.firstErr
}

// Order is the completion order of the last Run.
func (tl *TaskList) Order() []string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	out := make([]string, len(tl.order))
	copy(out, tl.order)
	return out
}
