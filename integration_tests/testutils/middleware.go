package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

// MessageCapture records messages delivered on subscribed topics for test verification.
type MessageCapture struct {
	messages map[string][]*message.Message
	mutex    sync.RWMutex
}

// NewMessageCapture creates an empty capture.
func NewMessageCapture() *MessageCapture {
	return &MessageCapture{messages: make(map[string][]*message.Message)}
}

// Subscribe acks and records every message on topic until ctx is cancelled.
func (mc *MessageCapture) Subscribe(ctx context.Context, sub message.Subscriber, topic string) error {
	msgs, err := sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}
	go func() {
		for msg := range msgs {
			mc.mutex.Lock()
			mc.messages[topic] = append(mc.messages[topic], msg)
			mc.mutex.Unlock()
			msg.Ack()
		}
	}()
	return nil
}

// GetMessages returns a copy of the messages captured for topic.
func (mc *MessageCapture) GetMessages(topic string) []*message.Message {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	msgs := make([]*message.Message, len(mc.messages[topic]))
	copy(msgs, mc.messages[topic])
	return msgs
}

// Clear drops all captured messages.
func (mc *MessageCapture) Clear() {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.messages = make(map[string][]*message.Message)
}

// WaitForMessages waits until at least expectedCount messages arrived on topic.
func (mc *MessageCapture) WaitForMessages(topic string, expectedCount int, timeout time.Duration) bool {
	return WaitFor(timeout, func() bool {
		return len(mc.GetMessages(topic)) >= expectedCount
	})
}
