package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/homeinv/internal/notify"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_SendVerification(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, exchange: "homeinv"}

	err := p.SendVerification(context.Background(), notify.Verification{UserID: 9, Email: "a@x.io", Name: "Kim", Code: "123456"})
	require.NoError(t, err)

	require.Len(t, ch.sent, 1)
	got := ch.sent[0]
	assert.Equal(t, "homeinv", got.exchange)
	assert.Equal(t, VerificationRoutingKey, got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	var v notify.Verification
	require.NoError(t, json.Unmarshal(got.msg.Body, &v))
	assert.Equal(t, "123456", v.Code)
	assert.Equal(t, int64(9), v.UserID)
}

func TestPublisher_WrapsPublishError(t *testing.T) {
	boom := errors.New("channel closed")
	p := &Publisher{ch: &fakeChannel{err: boom}, exchange: "homeinv"}

	err := p.SendVerification(context.Background(), notify.Verification{})
	assert.ErrorIs(t, err, boom)
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch}
	assert.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
