package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

type fakeRedis struct {
	channel string
	message any
	err     error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	f.channel, f.message = channel, message
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

var driver = domain.Actor{Kind: domain.KindPersonnel, ID: 20, Role: domain.RoleDriver}

func TestRedis_Publish(t *testing.T) {
	f := &fakeRedis{}
	p := NewRedis(f, "psah")

	err := p.Publish(context.Background(), New(RideRequestAccepted, 7, driver, nil))
	require.NoError(t, err)
	assert.Equal(t, "psah:ride_request.accepted", f.channel)

	var got Event
	require.NoError(t, json.Unmarshal(f.message.([]byte), &got))
	assert.Equal(t, RideRequestAccepted, got.Type)
	assert.Equal(t, int64(7), got.EntityID)
	assert.Equal(t, int64(20), got.ActorID)
	assert.Equal(t, domain.KindPersonnel, got.ActorKind)
}

func TestRedis_Publish_Error(t *testing.T) {
	p := NewRedis(&fakeRedis{err: errors.New("connection refused")}, "psah")

	err := p.Publish(context.Background(), New(TicketClosed, 1, driver, nil))
	assert.ErrorContains(t, err, "connection refused")
}

func TestAMQP_Publish(t *testing.T) {
	f := &fakeChannel{}
	p := NewAMQP(f, "psah.events")

	e := New(RideStatusChanged, 3, driver, map[string]string{"status": "IN_PROGRESS"})
	require.NoError(t, p.Publish(context.Background(), e))

	assert.Equal(t, "psah.events", f.exchange)
	assert.Equal(t, "ride.status_changed", f.key)
	assert.Equal(t, "application/json", f.msg.ContentType)
	assert.Equal(t, amqp.Persistent, f.msg.DeliveryMode)
	assert.Contains(t, string(f.msg.Body), `"IN_PROGRESS"`)
}

func TestNop_Publish(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{}))
}
