package net

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// taskChanSize bounds how many accepted connections can be queued waiting
// for a free worker before Run's accept loop itself starts blocking.
const taskChanSize = 128

// connWorkFunc handles one queued connection to completion.
type connWorkFunc func(t *tomb.Tomb, task any)

// workerPool runs a fixed number of goroutines pulling connections off a
// shared queue, the same fixed-pool shape as the teacher's WorkerPool
// (internal/worker.go), adapted to hand off net.Conn values instead of
// generic tasks typed only as `any` at the call site.
type workerPool struct {
	n     int
	tasks chan any
}

func newWorkerPool(size int) workerPool {
	return workerPool{n: size, tasks: make(chan any, taskChanSize)}
}

// AddTask enqueues a connection for a worker to pick up.
func (p *workerPool) AddTask(task any) {
	p.tasks <- task
}

// Run starts n workers, each looping on the shared task queue until t dies.
func (p *workerPool) Run(t *tomb.Tomb, work connWorkFunc) {
	log.Info().Int("workers", p.n).Msg("starting connection worker pool")
	for i := 0; i < p.n; i++ {
		t.Go(func() error {
			for {
				select {
				case <-t.Dying():
					return nil
				case task := <-p.tasks:
					work(t, task)
				}
			}
		})
	}
}
