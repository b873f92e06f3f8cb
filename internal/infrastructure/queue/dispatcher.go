package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/baselinehq/pricing-api/internal/api/metrics"
	"github.com/baselinehq/pricing-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes device-tracking updates to a fixed set of workers using
// consistent hashing on the fingerprint, so updates for the same device are
// applied in order. Tracking is best-effort: failures are logged, never
// surfaced to the action that triggered them.
type Dispatcher struct {
	workers []chan ports.TrackDeviceInput
	service ports.EntitlementService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EntitlementService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.TrackDeviceInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.TrackDeviceInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an update to the worker responsible for its fingerprint.
// Never blocks: when the worker queue is full the update is dropped and
// logged, keeping the calling request goroutine unaffected.
func (d *Dispatcher) Enqueue(in ports.TrackDeviceInput) {
	i := d.shardIndex(in.Fingerprint)
	select {
	case d.workers[i] <- in:
		metrics.DeviceTrackQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
	default:
		metrics.DeviceTrackDroppedTotal.Inc()
		d.log.Warn().
			Str("action", string(in.Action)).
			Int("worker_id", i).
			Msg("device tracking queue full, update dropped")
	}
}

// shardIndex maps a fingerprint deterministically to a worker index.
func (d *Dispatcher) shardIndex(fingerprint string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fingerprint))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.TrackDeviceInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.TrackDevice(ctx, in); err != nil {
				d.log.Error().Err(err).
					Str("action", string(in.Action)).
					Int("worker_id", id).
					Msg("device tracking failed")
			}
			metrics.DeviceTrackQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}
