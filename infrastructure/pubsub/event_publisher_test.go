package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEventPublisher(t *testing.T) {
	publisher := NewEventPublisher(nil)
	assert.NotNil(t, publisher)
}

func TestEventPublisher_PublishWithoutClient(t *testing.T) {
	// Events are advisory; with no backing client Publish is a silent no-op.
	publisher := NewEventPublisher(nil)

	serverID, err := publisher.Publish(context.Background(), "video.published", []byte(`{"videoId":"v-1"}`))

	assert.NoError(t, err)
	assert.Empty(t, serverID)
}

func TestNewPubSub_RequiresProjectID(t *testing.T) {
	client, err := NewPubSub(context.Background(), "")

	assert.Error(t, err)
	assert.Nil(t, client)
}
