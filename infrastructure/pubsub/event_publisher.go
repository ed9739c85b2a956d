package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"

	"reelpilot/infrastructure/logger"
)

// NewPubSub connects to GCP Pub/Sub for the configured project.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("pubsub project id not configured")
	}
	return pubsub.NewClient(ctx, projectID)
}

// IEventPublisher emits lifecycle events (generation dispatched, video
// published) to interested consumers. Implementations must tolerate being
// wired with no backing client; events are advisory, never load-bearing.
type IEventPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
	GetSubscription(subID string) (*pubsub.Subscription, error)
}

type EventPublisher struct {
	PubSubClient *pubsub.Client
}

func NewEventPublisher(pubSubClient *pubsub.Client) IEventPublisher {
	return &EventPublisher{
		PubSubClient: pubSubClient,
	}
}

func (p *EventPublisher) Publish(
	ctx context.Context,
	topicName string,
	payload []byte,
) (string, error) {
	if p.PubSubClient == nil {
		return "", nil
	}

	msg := &pubsub.Message{
		Data: payload,
	}

	topic := p.PubSubClient.Topic(topicName)

	// Create the topic if it doesn't exist.
	exists, err := topic.Exists(ctx)
	if err != nil {
		return "", err
	}
	if !exists {
		logger.GetLogger().WithField("topic", topicName).Info("Topic doesn't exist - creating it")
		if _, err = p.PubSubClient.CreateTopic(ctx, topicName); err != nil {
			return "", err
		}
	}

	serverID, err := topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return "", err
	}

	logger.GetLogger().WithField("server ID", serverID).Info("Event published")
	return serverID, nil
}

func (p *EventPublisher) GetSubscription(
	subID string,
) (*pubsub.Subscription, error) {
	logger.GetLogger().WithField("subID", subID).Info("PubSub subscription requested")

	return p.PubSubClient.Subscription(subID), nil
}
