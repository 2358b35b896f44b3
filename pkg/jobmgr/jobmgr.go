// Package jobmgr runs named background jobs bound to a parent context and
// waits for them on shutdown.
//
//	jm := jobmgr.NewManager(ctx, nil)
//	_ = jm.Start("quota-cleaner", func(ctx context.Context) error {
//	    // work until ctx is cancelled
//	    return nil
//	})
//	jm.Wait()
package jobmgr

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Event is a job lifecycle change reported to a Reporter.
type Event struct {
	Job string
	// State is "running", "done" or "error".
	State string
	Err   error
}

type Reporter func(Event)

// Manager tracks running jobs. It is safe for concurrent use.
type Manager struct {
	parent   context.Context
	reporter Reporter

	mu   sync.Mutex
	jobs map[string]context.CancelFunc
	wg   sync.WaitGroup
}

// NewManager creates a manager whose jobs stop when parent is done.
// The reporter may be nil.
func NewManager(parent context.Context, reporter Reporter) *Manager {
	return &Manager{
		parent:   parent,
		reporter: reporter,
		jobs:     make(map[string]context.CancelFunc),
	}
}

// Start runs runner in its own goroutine. A job name can run only once at a
// time; finished jobs are forgotten.
func (m *Manager) Start(name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[name]; exists {
		return fmt.Errorf("job %q is already running", name)
	}

	ctx, cancel := context.WithCancel(m.parent)
	m.jobs[name] = cancel
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		defer cancel()

		m.report(Event{Job: name, State: "running"})
		if err := runner(ctx); err != nil {
			m.report(Event{Job: name, State: "error", Err: err})
		} else {
			m.report(Event{Job: name, State: "done"})
		}

		m.mu.Lock()
		delete(m.jobs, name)
		m.mu.Unlock()
	}()
	return nil
}

// Stop cancels a running job by name.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cancel, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job %q not running", name)
	}
	cancel()
	delete(m.jobs, name)
	return nil
}

// List returns the names of running jobs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Wait blocks until every started job has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) report(e Event) {
	if m.reporter != nil {
		m.reporter(e)
	}
}
