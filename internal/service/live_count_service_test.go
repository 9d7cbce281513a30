package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursereg-client/internal/models"
	"github.com/noah-isme/coursereg-client/internal/repository"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
	"github.com/noah-isme/coursereg-client/pkg/session"
	"github.com/noah-isme/coursereg-client/pkg/stream"
)

type scriptedSubscriber struct {
	events []stream.Event
	err    error
	hold   bool
}

func (s *scriptedSubscriber) Subscribe(ctx context.Context, handler func(stream.Event)) error {
	for _, event := range s.events {
		if ctx.Err() != nil {
			return nil
		}
		handler(event)
	}
	if s.hold {
		<-ctx.Done()
		return nil
	}
	return s.err
}

// lateSubscriber delivers before and after its context is cancelled, the way
// an in-flight read can still surface an event while the stream shuts down.
type lateSubscriber struct {
	before []stream.Event
	after  []stream.Event
}

func (s *lateSubscriber) Subscribe(ctx context.Context, handler func(stream.Event)) error {
	for _, event := range s.before {
		handler(event)
	}
	<-ctx.Done()
	for _, event := range s.after {
		handler(event)
	}
	return nil
}

type stubCredential struct{ err error }

func (s stubCredential) Check() error { return s.err }

func messageEvent(data string) stream.Event {
	return stream.Event{Type: stream.DefaultEventType, Data: []byte(data)}
}

func catalogWith(records ...models.CourseRecord) *repository.CourseCatalog {
	catalog := repository.NewCourseCatalog()
	catalog.Load(records)
	return catalog
}

func TestParseSeatDeltas(t *testing.T) {
	deltas, rejected, err := ParseSeatDeltas([]byte(`{"12": 4, "10": 30, "abc": 1, "11": -2, "13": 1.5}`))
	require.NoError(t, err)
	assert.Equal(t, []models.SeatDelta{{CourseID: 10, Count: 30}, {CourseID: 12, Count: 4}}, deltas)
	assert.Equal(t, []string{"11", "13", "abc"}, rejected)

	_, _, err = ParseSeatDeltas([]byte(`[1,2]`))
	assert.Error(t, err)
	_, _, err = ParseSeatDeltas([]byte(`null`))
	assert.Error(t, err)
	_, _, err = ParseSeatDeltas([]byte(`{"10":`))
	assert.Error(t, err)
}

func TestLiveCountServiceAppliesDeltasInOrder(t *testing.T) {
	catalog := catalogWith(models.CourseRecord{ID: 10, TotalNumber: 40, RegisteredNumber: 1})
	subscriber := &scriptedSubscriber{events: []stream.Event{
		messageEvent(`{"10": 5}`),
		messageEvent(`{"10": 3}`),
		messageEvent(`{"10": 9}`),
	}}
	metrics := NewMetricsService()
	svc := NewLiveCountService(catalog, subscriber, stubCredential{}, metrics, nil)

	handle, err := svc.Open(context.Background())
	require.NoError(t, err)
	<-handle.Done()
	require.NoError(t, handle.Close())

	record, ok := catalog.Get(10)
	require.True(t, ok)
	assert.Equal(t, 9, record.RegisteredNumber)
	applied, dropped := handle.Stats()
	assert.Equal(t, 3, applied)
	assert.Equal(t, 0, dropped)
	assert.Equal(t, uint64(3), metrics.Snapshot().DeltasApplied)
	assert.NoError(t, handle.Err())
}

func TestLiveCountServiceDropsUnknownAndInvalidEntries(t *testing.T) {
	catalog := catalogWith(models.CourseRecord{ID: 10, TotalNumber: 40})
	subscriber := &scriptedSubscriber{events: []stream.Event{
		messageEvent(`{"10": 7, "99": 3, "x": 1}`),
	}}
	metrics := NewMetricsService()
	svc := NewLiveCountService(catalog, subscriber, nil, metrics, nil)

	handle, err := svc.Open(context.Background())
	require.NoError(t, err)
	<-handle.Done()
	handle.Close()

	assert.Equal(t, 1, catalog.Len())
	_, ok := catalog.Get(99)
	assert.False(t, ok)
	record, _ := catalog.Get(10)
	assert.Equal(t, 7, record.RegisteredNumber)
	applied, dropped := handle.Stats()
	assert.Equal(t, 1, applied)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, uint64(2), metrics.Snapshot().DeltasDropped)
}

func TestLiveCountServiceToleratesMalformedAndErrorEvents(t *testing.T) {
	catalog := catalogWith(models.CourseRecord{ID: 10, TotalNumber: 40})
	subscriber := &scriptedSubscriber{events: []stream.Event{
		messageEvent(`not json`),
		{Type: "error", Data: []byte("upstream hiccup")},
		{Type: "heartbeat", Data: []byte(`{"10": 1}`)},
		messageEvent(`{"10": 12}`),
	}}
	metrics := NewMetricsService()
	svc := NewLiveCountService(catalog, subscriber, nil, metrics, nil)

	handle, err := svc.Open(context.Background())
	require.NoError(t, err)
	<-handle.Done()
	handle.Close()

	record, _ := catalog.Get(10)
	assert.Equal(t, 12, record.RegisteredNumber)
	assert.Equal(t, uint64(2), metrics.Snapshot().StreamErrors)
}

func TestLiveCountServiceTransportFailureLeavesCatalogStale(t *testing.T) {
	catalog := catalogWith(models.CourseRecord{ID: 10, TotalNumber: 40, RegisteredNumber: 2})
	subscriber := &scriptedSubscriber{
		events: []stream.Event{messageEvent(`{"10": 4}`)},
		err:    errors.New("connection reset"),
	}
	svc := NewLiveCountService(catalog, subscriber, nil, nil, nil)

	handle, err := svc.Open(context.Background())
	require.NoError(t, err)
	<-handle.Done()

	assert.True(t, errors.Is(handle.Err(), appErrors.ErrStream))
	record, _ := catalog.Get(10)
	assert.Equal(t, 4, record.RegisteredNumber)
	handle.Close()
}

func TestLiveCountServiceRefusesExpiredCredential(t *testing.T) {
	svc := NewLiveCountService(catalogWith(), &scriptedSubscriber{}, stubCredential{err: session.ErrExpired}, nil, nil)

	handle, err := svc.Open(context.Background())
	assert.Nil(t, handle)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
	assert.True(t, errors.Is(err, session.ErrExpired))
}

func TestLiveCountServiceCloseIsIdempotentBarrier(t *testing.T) {
	catalog := catalogWith(models.CourseRecord{ID: 10, TotalNumber: 40})
	subscriber := &scriptedSubscriber{events: []stream.Event{messageEvent(`{"10": 1}`)}, hold: true}
	svc := NewLiveCountService(catalog, subscriber, nil, nil, nil)

	handle, err := svc.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, handle.Close())
	require.NoError(t, handle.Close())

	select {
	case <-handle.Done():
	default:
		t.Fatal("handle should be done after Close")
	}
	assert.NoError(t, handle.Err())
}

func TestLiveCountServiceIgnoresEventsAfterClose(t *testing.T) {
	catalog := catalogWith(models.CourseRecord{ID: 10, TotalNumber: 40, RegisteredNumber: 1})
	subscriber := &lateSubscriber{
		before: []stream.Event{messageEvent(`{"10": 5}`)},
		after:  []stream.Event{messageEvent(`{"10": 99}`)},
	}
	metrics := NewMetricsService()
	svc := NewLiveCountService(catalog, subscriber, nil, metrics, nil)

	handle, err := svc.Open(context.Background())
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		applied, _ := handle.Stats()
		return applied == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, handle.Close())

	record, _ := catalog.Get(10)
	assert.Equal(t, 5, record.RegisteredNumber)
	applied, dropped := handle.Stats()
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, dropped)
	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.DeltasApplied)
	assert.Equal(t, uint64(1), snapshot.DeltasDropped)
}

func TestWithLiveCountsClosesOnError(t *testing.T) {
	subscriber := &scriptedSubscriber{hold: true}
	svc := NewLiveCountService(catalogWith(), subscriber, nil, nil, nil)

	var captured *LiveCountHandle
	boom := errors.New("render failed")
	err := svc.WithLiveCounts(context.Background(), func(ctx context.Context, handle *LiveCountHandle) error {
		captured = handle
		return boom
	})
	assert.Equal(t, boom, err)
	require.NotNil(t, captured)
	select {
	case <-captured.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription was not closed")
	}
}

func TestLiveCountServiceEndToEndOverSSE(t *testing.T) {
	var (
		mu      sync.Mutex
		authSeen string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		authSeen = r.Header.Get("Authorization")
		mu.Unlock()
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		for _, payload := range []string{`{"10": 30}`, `{"11": 2, "10": 31}`, `{"77": 5}`} {
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}))
	defer server.Close()

	catalog := catalogWith(
		models.CourseRecord{ID: 10, CourseID: "IT001.1", TotalNumber: 30, RegisteredNumber: 29},
		models.CourseRecord{ID: 11, CourseID: "IT002.1", TotalNumber: 40},
	)
	credential := session.NewCredential("Bearer portal-token")
	client := stream.NewClient(stream.Config{
		URL:     server.URL + "/api/courses/updateRegNumbers",
		Headers: map[string]string{"Authorization": credential.Header()},
	})
	svc := NewLiveCountService(catalog, client, credential, NewMetricsService(), nil)

	handle, err := svc.Open(context.Background())
	require.NoError(t, err)
	select {
	case <-handle.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not finish")
	}
	handle.Close()

	first, _ := catalog.Get(10)
	second, _ := catalog.Get(11)
	assert.Equal(t, 31, first.RegisteredNumber)
	assert.True(t, first.Full())
	assert.Equal(t, 2, second.RegisteredNumber)
	assert.Equal(t, 2, catalog.Len())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer portal-token", authSeen)
}
