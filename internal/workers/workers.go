package workers

type Workers struct {
	workers []Worker
}

// NewWorkers bundles workers in launch order.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
