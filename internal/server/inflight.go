package server

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// job is one decode in progress.
type job struct {
	ID      string    `json:"id"`
	File    string    `json:"file"`
	Bytes   int64     `json:"bytes"`
	Started time.Time `json:"started"`
}

type registry struct {
	mu   sync.Mutex
	jobs map[string]job
}

func newRegistry() *registry {
	return &registry{jobs: make(map[string]job)}
}

func (r *registry) add(j job) {
	r.mu.Lock()
	r.jobs[j.ID] = j
	r.mu.Unlock()
}

func (r *registry) remove(id string) {
	r.mu.Lock()
	delete(r.jobs, id)
	r.mu.Unlock()
}

// list returns the running jobs, oldest first.
func (r *registry) list() []job {
	r.mu.Lock()
	out := make([]job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	r.mu.Unlock()

	slices.SortFunc(out, func(a, b job) int {
		if c := a.Started.Compare(b.Started); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
