package models

// Conversation status values
const (
	ConversationPending = "pending"
	ConversationActive  = "active"
	ConversationBlocked = "blocked"
)

// Chat request status values
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Message types
const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeLocation = "location"
)
