package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/you/leadsvc/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_PublishBookingCreated(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}
	event := &domain.BookingEvent{
		Type:      domain.BookingCreatedEventType,
		BookingID: "SHREEAI-1700000000000",
		UserID:    "user-1",
		Date:      "2025-03-01",
		Services:  []string{"Data Analytics"},
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	}

	require.NoError(t, p.PublishBookingCreated(context.Background(), event))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "SHREEAI-1700000000000", string(w.msgs[0].Key))
	assert.Equal(t, "booking.created", string(w.msgs[0].Headers[0].Value))

	var decoded domain.BookingEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, *event, decoded)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker unavailable")}}
	err := p.PublishBookingCreated(context.Background(), &domain.BookingEvent{BookingID: "x"})
	assert.ErrorContains(t, err, "broker unavailable")
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(zap.NewNop())
	assert.NoError(t, p.PublishBookingCreated(context.Background(), &domain.BookingEvent{BookingID: "x"}))
	assert.NoError(t, p.Close())
}
