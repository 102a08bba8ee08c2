package service

import (
	"context"
	"encoding/json"

	"ai-docsearch-be/internal/pkg/logger"
	"ai-docsearch-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IAuditConsumerService drains audit events off the in-process bus and writes
// them to the audit log, off the request critical path.
type IAuditConsumerService interface {
	Consume(ctx context.Context) error
}

type auditConsumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewAuditConsumerService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IAuditConsumerService {
	return &auditConsumerService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

func (cs *auditConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *auditConsumerService) processMessage(msg *message.Message) {
	var envelope events.Envelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.logger.Error("AUDIT", "failed to unmarshal audit event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed messages are not retriable
		return
	}

	details := envelope.Payload
	if details == nil {
		details = make(map[string]interface{})
	}
	details["occurred_at"] = envelope.OccurredAt

	cs.logger.Info("AUDIT", envelope.Type, details)
	msg.Ack()
}
