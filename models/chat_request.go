package models

// ChatRequest is created alongside a pending conversation when one user
// contacts another by PIN. Status transitions are terminal
// (pending -> accepted | rejected).
type ChatRequest struct {
	RequestID      string `dynamodbav:"requestId" json:"requestId"`
	FromUserID     string `dynamodbav:"fromUserId" json:"fromUserId"`
	ToUserID       string `dynamodbav:"toUserId" json:"toUserId"`
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"`
	Status         string `dynamodbav:"status" json:"status"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
	RespondedAt    string `dynamodbav:"respondedAt,omitempty" json:"respondedAt,omitempty"`
}

// ChatRequestsTable is the DynamoDB table name for chat requests
const ChatRequestsTable = "ChatRequests"

// GSIs for querying requests by either end of the pair
const (
	RequestFromIndex = "fromUserId-index"
	RequestToIndex   = "toUserId-index"
)
