package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/coursereg-client/internal/models"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
	"github.com/noah-isme/coursereg-client/pkg/stream"
)

const streamEventError = "error"

type seatEventSubscriber interface {
	Subscribe(ctx context.Context, handler func(stream.Event)) error
}

type seatCountWriter interface {
	ApplyDelta(id, count int) bool
}

type credentialChecker interface {
	Check() error
}

// LiveCountService keeps catalog seat counts current from the portal's
// server-push stream. It is the only writer of registered counts.
type LiveCountService struct {
	catalog     seatCountWriter
	subscriber  seatEventSubscriber
	credentials credentialChecker
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewLiveCountService wires the stream to the catalog.
func NewLiveCountService(catalog seatCountWriter, subscriber seatEventSubscriber, credentials credentialChecker, metrics *MetricsService, logger *zap.Logger) *LiveCountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveCountService{
		catalog:     catalog,
		subscriber:  subscriber,
		credentials: credentials,
		metrics:     metrics,
		logger:      logger,
	}
}

// Open starts one subscription. The returned handle must be closed; Close is
// idempotent and no delta is applied once it has returned.
func (s *LiveCountService) Open(ctx context.Context) (*LiveCountHandle, error) {
	if s.credentials != nil {
		if err := s.credentials.Check(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "cannot open seat count stream")
		}
	}
	streamCtx, cancel := context.WithCancel(ctx)
	handle := &LiveCountHandle{
		svc:    s,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go handle.run(streamCtx)
	s.logger.Info("seat count stream opened")
	return handle, nil
}

// WithLiveCounts opens a subscription, runs fn and closes the subscription on
// every exit path.
func (s *LiveCountService) WithLiveCounts(ctx context.Context, fn func(ctx context.Context, handle *LiveCountHandle) error) error {
	handle, err := s.Open(ctx)
	if err != nil {
		return err
	}
	defer handle.Close()
	return fn(ctx, handle)
}

// LiveCountHandle is an open subscription.
type LiveCountHandle struct {
	svc       *LiveCountService
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	closed  bool
	err     error
	applied int
	dropped int
}

// Done is closed once the subscription has ended for any reason.
func (h *LiveCountHandle) Done() <-chan struct{} {
	return h.done
}

// Err returns the stream failure that ended the subscription, if any.
func (h *LiveCountHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Stats returns how many deltas were applied and dropped so far.
func (h *LiveCountHandle) Stats() (applied, dropped int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.applied, h.dropped
}

// Close ends the subscription and waits for the consumer to stop.
func (h *LiveCountHandle) Close() error {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()
		h.cancel()
		<-h.done
		h.svc.logger.Info("seat count stream closed")
	})
	return nil
}

func (h *LiveCountHandle) run(ctx context.Context) {
	defer close(h.done)
	err := h.svc.subscriber.Subscribe(ctx, h.handle)
	if err == nil || ctx.Err() != nil {
		return
	}
	h.svc.metrics.RecordStreamError()
	h.svc.logger.Warn("seat count stream failed; keeping last known counts", zap.Error(err))
	h.mu.Lock()
	h.err = appErrors.Wrap(err, appErrors.ErrStream.Code, appErrors.ErrStream.Status, appErrors.ErrStream.Message)
	h.mu.Unlock()
}

func (h *LiveCountHandle) handle(event stream.Event) {
	switch event.Type {
	case stream.DefaultEventType:
	case streamEventError:
		h.svc.metrics.RecordStreamError()
		h.svc.logger.Warn("seat count stream reported an error", zap.ByteString("data", event.Data))
		return
	default:
		h.svc.logger.Debug("ignoring seat count stream event", zap.String("type", event.Type))
		return
	}

	deltas, rejected, err := ParseSeatDeltas(event.Data)
	if err != nil {
		h.svc.metrics.RecordStreamError()
		h.svc.logger.Warn("malformed seat count event", zap.Error(err))
		return
	}
	for _, key := range rejected {
		h.svc.metrics.RecordDeltaDropped(DropReasonInvalid)
		h.svc.logger.Warn("invalid seat count entry dropped", zap.String("key", key))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		for range deltas {
			h.svc.metrics.RecordDeltaDropped(DropReasonClosed)
		}
		h.dropped += len(deltas) + len(rejected)
		return
	}
	for _, delta := range deltas {
		if !h.svc.catalog.ApplyDelta(delta.CourseID, delta.Count) {
			h.dropped++
			h.svc.metrics.RecordDeltaDropped(DropReasonUnknownID)
			h.svc.logger.Info("seat count for unknown course dropped", zap.Int("course_id", delta.CourseID))
			continue
		}
		h.applied++
		h.svc.metrics.RecordDeltaApplied()
	}
	h.dropped += len(rejected)
}

// ParseSeatDeltas decodes a `{"<id>": count}` payload. Entries whose key is not
// an integer id or whose value is not a non-negative integer are returned in
// rejected and skipped. Deltas are ordered by course id.
func ParseSeatDeltas(data []byte) ([]models.SeatDelta, []string, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw map[string]json.Number
	if err := decoder.Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("decode seat counts: %w", err)
	}
	if raw == nil {
		return nil, nil, fmt.Errorf("decode seat counts: payload is not an object")
	}

	deltas := make([]models.SeatDelta, 0, len(raw))
	var rejected []string
	for key, value := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			rejected = append(rejected, key)
			continue
		}
		count, err := strconv.Atoi(value.String())
		if err != nil || count < 0 {
			rejected = append(rejected, key)
			continue
		}
		deltas = append(deltas, models.SeatDelta{CourseID: id, Count: count})
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].CourseID < deltas[j].CourseID })
	sort.Strings(rejected)
	return deltas, rejected, nil
}
