package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/linewatch/xray-monitor/internal/api/metrics"
	"github.com/linewatch/xray-monitor/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes detection events to a fixed set of workers using
// consistent hashing on the zone, guaranteeing per-zone event ordering.
type Dispatcher struct {
	workers []chan ports.DetectionEventInput
	service ports.EventService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.DetectionEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.DetectionEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its zone.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.DetectionEventInput) {
	i := d.shardIndex(event.Zone)
	d.workers[i] <- event
	metrics.QueueDepth.WithLabelValues(strconv.Itoa(i)).Inc()
}

// EnqueueBatch enqueues multiple events preserving per-zone ordering.
func (d *Dispatcher) EnqueueBatch(events []ports.DetectionEventInput) {
	for _, e := range events {
		d.Enqueue(e)
	}
}

// shardIndex maps a zone deterministically to a worker index.
func (d *Dispatcher) shardIndex(zone string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(zone))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.DetectionEventInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.QueueDepth.WithLabelValues(strconv.Itoa(id)).Dec()
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("zone", event.Zone).
					Str("machine_id", event.MachineID).
					Int("worker_id", id).
					Msg("event processing failed")
			}
		}
	}
}
