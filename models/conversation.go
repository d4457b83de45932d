package models

// Conversation is a pairwise chat between exactly two participants.
// Denormalized summary fields (lastMessage, unreadCount, pendingFor) are
// maintained by the chat service on every dispatch.
type Conversation struct {
	ConversationID    string            `dynamodbav:"conversationId" json:"conversationId"`
	Participants      []string          `dynamodbav:"participants" json:"participants"`
	Status            string            `dynamodbav:"status" json:"status"`
	CreatedBy         string            `dynamodbav:"createdBy" json:"createdBy"`
	LastMessage       string            `dynamodbav:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageTime   string            `dynamodbav:"lastMessageTime,omitempty" json:"lastMessageTime,omitempty"`
	LastMessageSender string            `dynamodbav:"lastMessageSenderId,omitempty" json:"lastMessageSenderId,omitempty"`
	UnreadCount       map[string]int    `dynamodbav:"unreadCount" json:"unreadCount"`
	PendingFor        map[string]bool   `dynamodbav:"pendingFor" json:"pendingFor"`
	LastReadAt        map[string]string `dynamodbav:"lastReadAt,omitempty" json:"lastReadAt,omitempty"`
	CreatedAt         string            `dynamodbav:"createdAt" json:"createdAt"`
	AcceptedAt        string            `dynamodbav:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	UpdatedAt         string            `dynamodbav:"updatedAt" json:"updatedAt"`
}

// HasParticipant reports whether uid is one of the two participants.
func (c *Conversation) HasParticipant(uid string) bool {
	for _, p := range c.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// OtherParticipant returns the peer of uid, or "" if uid is not a participant.
func (c *Conversation) OtherParticipant(uid string) string {
	if !c.HasParticipant(uid) {
		return ""
	}
	for _, p := range c.Participants {
		if p != uid {
			return p
		}
	}
	return ""
}

// ConversationsTable is the DynamoDB table name for conversations
const ConversationsTable = "Conversations"
