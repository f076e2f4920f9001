package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	ID     string    `json:"id"`
	User   string    `json:"user"`
	Text   string    `json:"text"`
	Time   string    `json:"time"`
	SentAt time.Time `json:"sentAt"`
}

func NewChatMessage(user, text, displayTime string) ChatMessage {
	now := time.Now()
	if displayTime == "" {
		displayTime = now.Format("15:04")
	}

	return ChatMessage{
		ID:     uuid.NewString(),
		User:   user,
		Text:   text,
		Time:   displayTime,
		SentAt: now,
	}
}

// ChatLog is append-only for the lifetime of its room.
type ChatLog struct {
	messages []ChatMessage
}

func NewChatLog() *ChatLog {
	return &ChatLog{
		messages: make([]ChatMessage, 0, 64),
	}
}

func (c *ChatLog) Append(m ChatMessage) int {
	c.messages = append(c.messages, m)
	return len(c.messages)
}

func (c *ChatLog) Len() int {
	return len(c.messages)
}

func (c *ChatLog) Snapshot() []ChatMessage {
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}
