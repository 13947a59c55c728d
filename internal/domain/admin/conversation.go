package admin

import "time"

// Participant is a conversation member.
type Participant struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
}

// Message is a single chat message.
type Message struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversation_id"`
	SenderID       string       `json:"sender_id"`
	Body           string       `json:"body"`
	SentAt         time.Time    `json:"sent_at"`
	Sender         *Participant `json:"sender,omitempty"`
}

// Conversation is a chat thread between platform users.
type Conversation struct {
	ID            string        `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Participants  []Participant `json:"participants"`
	Messages      []Message     `json:"messages"`
	MessageCount  int           `json:"messageCount"`
	LastMessageAt *time.Time    `json:"lastMessageAt,omitempty"`
}

// LastMessage returns the most recent message body, if any.
func (c Conversation) LastMessage() string {
	if len(c.Messages) == 0 {
		return ""
	}
	last := c.Messages[0]
	for _, m := range c.Messages[1:] {
		if m.SentAt.After(last.SentAt) {
			last = m
		}
	}
	return last.Body
}

// ConversationsPage is a page of conversations (GET /admin/conversations).
type ConversationsPage struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
	TotalPages    int            `json:"totalPages"`
}

// UserConversations is GET /admin/users/{id}/conversations.
type UserConversations struct {
	UserID             string         `json:"userId"`
	UserDisplayName    string         `json:"userDisplayName"`
	Conversations      []Conversation `json:"conversations"`
	TotalConversations int            `json:"totalConversations"`
	TotalMessages      int            `json:"totalMessages"`
}
