package models

// MessageLocation is a one-shot shared position attached to a location message.
type MessageLocation struct {
	Latitude  float64 `dynamodbav:"latitude" json:"latitude"`
	Longitude float64 `dynamodbav:"longitude" json:"longitude"`
	Timestamp string  `dynamodbav:"timestamp" json:"timestamp"`
	Duration  int     `dynamodbav:"duration,omitempty" json:"duration,omitempty"`
}

// Message is immutable once written except for the read/readAt transition
// performed when the peer opens the conversation.
type Message struct {
	ConversationID string           `dynamodbav:"conversationId" json:"conversationId"`
	CreatedAt      string           `dynamodbav:"createdAt" json:"createdAt"`
	MessageID      string           `dynamodbav:"messageId" json:"messageId"`
	SenderID       string           `dynamodbav:"senderId" json:"senderId"`
	SenderName     string           `dynamodbav:"senderName,omitempty" json:"senderName,omitempty"`
	SenderPhotoURL string           `dynamodbav:"senderPhotoURL,omitempty" json:"senderPhotoURL,omitempty"`
	Type           string           `dynamodbav:"type" json:"type"`
	Text           string           `dynamodbav:"text,omitempty" json:"text,omitempty"`
	ImageKey       string           `dynamodbav:"imageKey,omitempty" json:"imageKey,omitempty"`
	ImageBase64    string           `dynamodbav:"imageBase64,omitempty" json:"imageBase64,omitempty"`
	Location       *MessageLocation `dynamodbav:"location,omitempty" json:"location,omitempty"`
	Read           bool             `dynamodbav:"read" json:"read"`
	ReadAt         string           `dynamodbav:"readAt,omitempty" json:"readAt,omitempty"`
}

// Preview returns the human-readable summary stored on the conversation's
// lastMessage field.
func (m *Message) Preview() string {
	switch m.Type {
	case MessageTypeImage:
		return "📷 Imagen"
	case MessageTypeLocation:
		return "📍 Ubicación"
	default:
		return m.Text
	}
}

// SharedLocation is the most recent one-shot location a peer posted in one
// of the user's active conversations. Computed for the map feed, never stored.
type SharedLocation struct {
	UserID         string  `json:"userId"`
	UserName       string  `json:"userName,omitempty"`
	UserPhoto      string  `json:"userPhoto,omitempty"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Timestamp      string  `json:"timestamp"`
	ConversationID string  `json:"conversationId"`
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"
