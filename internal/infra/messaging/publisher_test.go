//go:build unit

package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"library-lending/internal/infra/messaging"
	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed int
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed++
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := messaging.NewKafkaPublisherWithWriter(w)

	due := time.Date(2024, 1, 24, 10, 0, 0, 0, time.UTC)
	evt := shared.LendingEvent{
		ID:          uuid.New(),
		Type:        shared.EventItemBorrowed,
		BorrowingID: uuid.New(),
		UserID:      uuid.New(),
		ItemID:      uuid.New(),
		DueDate:     &due,
		OccurredAt:  time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.Publish(context.Background(), evt))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, evt.ItemID.String(), string(msg.Key))
	assert.Equal(t, evt.OccurredAt, msg.Time)
	assert.Equal(t, string(shared.EventItemBorrowed), header(msg, messaging.HeaderEventType))
	assert.Equal(t, evt.ID.String(), header(msg, messaging.HeaderEventID))
	assert.Equal(t, "1", header(msg, messaging.HeaderSchemaVersion))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, evt.BorrowingID.String(), decoded["borrowing_id"])
	assert.Equal(t, "2024-01-24T10:00:00Z", decoded["due_date"])
	assert.NotContains(t, decoded, "return_date")
	assert.NotContains(t, decoded, "late_fee_cents")
}

func TestKafkaPublisher_WriteFailure(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := messaging.NewKafkaPublisherWithWriter(w)

	err := p.Publish(context.Background(), shared.LendingEvent{Type: shared.EventItemReturned})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Contains(t, err.Error(), string(shared.EventItemReturned))
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &recordingWriter{}
	p := messaging.NewKafkaPublisherWithWriter(w)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, w.closed)

	err := p.Publish(context.Background(), shared.LendingEvent{})
	assert.True(t, errs.Is(err, messaging.ErrPublisherClosed))
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := messaging.NewKafkaPublisher(config.KafkaConfig{Topic: "lending.events"})
	assert.True(t, errs.Is(err, messaging.ErrNoBrokers))

	_, err = messaging.NewKafkaPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.True(t, errs.Is(err, messaging.ErrEmptyTopic))

	p, err := messaging.NewKafkaPublisher(config.KafkaConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "lending.events",
		RequiredAcks: 1,
		Compression:  "zstd",
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestNopPublisher(t *testing.T) {
	var p messaging.NopPublisher
	assert.NoError(t, p.Publish(context.Background(), shared.LendingEvent{}))
	assert.NoError(t, p.Close())
}
