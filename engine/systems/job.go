package systems

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/spaghettifunk/geomstudio/engine/core"
)

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemStopped = errors.New("job system stopped")

// JobTask is one unit of background work. OnStart runs on a worker;
// exactly one of OnComplete and OnFailure follows.
type JobTask struct {
	Name       string
	OnStart    func() error
	OnComplete func()
	OnFailure  func(err error)
}

func (jt JobTask) finish(err error) {
	if err != nil {
		if jt.OnFailure != nil {
			jt.OnFailure(err)
		}
		return
	}
	if jt.OnComplete != nil {
		jt.OnComplete()
	}
}

/**
 * @brief A fixed pool of workers for work that never touches a scene, such
 * as warming the geometry cache. Jobs still queued at shutdown fail with
 * ErrJobSystemStopped instead of running.
 */
type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	mu       sync.RWMutex
	closed   bool
	stopping atomic.Bool
}

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	jq := make(chan JobTask, channelSize)
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   jq,
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				if js.stopping.Load() {
					job.finish(ErrJobSystemStopped)
					continue
				}
				err := job.OnStart()
				if err != nil {
					core.LogError("job %s failed: %s", job.Name, err)
				}
				job.finish(err)
			}
		}()
	}
}

/**
 * @brief Shuts the job system down. Running jobs finish; queued jobs fail.
 */
func (js *JobSystem) Shutdown() error {
	js.stopping.Store(true)
	js.mu.Lock()
	if js.closed {
		js.mu.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.mu.Unlock()
	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	if jt.OnStart == nil {
		return fmt.Errorf("func JobSystem.Submit - job %q has no OnStart", jt.Name)
	}
	js.mu.RLock()
	defer js.mu.RUnlock()
	if js.closed {
		return ErrJobSystemStopped
	}
	js.jobQueue <- jt
	return nil
}
