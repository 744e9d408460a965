package model

import "time"

// ChatRole identifies the author of a chat message
type ChatRole string

const (
	RoleUser ChatRole = "user"
	RoleBot  ChatRole = "bot"
)

// Topic is the canned-response bucket a message was dispatched to
type Topic string

const (
	TopicMortgage   Topic = "mortgage"
	TopicMarket     Topic = "market"
	TopicInvestment Topic = "investment"
	TopicSearch     Topic = "search"
	TopicAgent      Topic = "agent"
	TopicDefault    Topic = "default"
)

// ChatMessage is one entry of a session transcript
type ChatMessage struct {
	ID        int64     `json:"id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Topic     Topic     `json:"topic,omitempty"`
}

// FollowUpAction is a secondary UI action scheduled after a bot reply
type FollowUpAction struct {
	Action  string `json:"action"`
	AfterMs int64  `json:"after_ms"`
}

// FollowUpContactForm opens the contact-agent form
const FollowUpContactForm = "open_contact_form"

// ChatSession is returned when a widget session starts
type ChatSession struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
}

// ChatSendRequest carries a user message
type ChatSendRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatReply is the result of one chat turn
type ChatReply struct {
	SessionID string          `json:"session_id"`
	User      ChatMessage     `json:"user"`
	Bot       ChatMessage     `json:"bot"`
	Topic     Topic           `json:"topic"`
	Source    string          `json:"source"` // "rules" or "assistant"
	FollowUp  *FollowUpAction `json:"follow_up,omitempty"`
}
