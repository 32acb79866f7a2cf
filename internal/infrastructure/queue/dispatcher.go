package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/api/metrics"
	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrQueueFull is returned by Enqueue when the target worker is saturated.
var ErrQueueFull = errors.New("call status queue full")

// Dispatcher routes call-status events to a fixed set of workers using
// consistent hashing on the user ID, so one user's balance updates are
// applied in arrival order.
type Dispatcher struct {
	workers []chan domain.CallStatusEvent
	service ports.CallStatusService
	log     zerolog.Logger
	done    chan struct{}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.CallStatusService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.CallStatusEvent, numWorkers),
		service: service,
		log:     log,
		done:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.CallStatusEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their queue and stop
// when ctx is cancelled; Done is closed once all of them have returned.
func (d *Dispatcher) Start(ctx context.Context) {
	finished := make(chan struct{}, len(d.workers))
	for i, ch := range d.workers {
		go func(id int, ch chan domain.CallStatusEvent) {
			d.runWorker(ctx, id, ch)
			finished <- struct{}{}
		}(i, ch)
	}
	go func() {
		for range d.workers {
			<-finished
		}
		close(d.done)
	}()
}

// Done is closed after every worker has stopped.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Enqueue hands the event to the worker responsible for its user without
// blocking. ErrQueueFull is returned when that worker's buffer is full.
func (d *Dispatcher) Enqueue(event domain.CallStatusEvent) error {
	idx := d.shardIndex(event.UserID)
	select {
	case d.workers[idx] <- event:
		metrics.CallStatusQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		return ErrQueueFull
	}
}

// shardIndex maps a user ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.CallStatusEvent) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			metrics.CallStatusQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, event)
		}
	}
}

// drain processes what is left in the buffer with a short grace period.
func (d *Dispatcher) drain(id int, ch <-chan domain.CallStatusEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event := <-ch:
			d.process(ctx, id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, event domain.CallStatusEvent) {
	start := time.Now()
	err := d.service.Process(ctx, event)
	metrics.CallStatusProcessingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CallStatusProcessedTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("call_id", event.CallID).
			Str("user_id", event.UserID).
			Int("worker_id", id).
			Msg("call status processing failed")
		return
	}
	metrics.CallStatusProcessedTotal.WithLabelValues("ok").Inc()
}
