package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Staillim/GeoChat/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// Validation errors for the request lifecycle, surfaced to the user as-is.
var (
	ErrSelfRequest          = errors.New("No puedes enviarte una solicitud a ti mismo")
	ErrConversationExists   = errors.New("Ya existe una conversación con este usuario")
	ErrRequestAlreadyExists = errors.New("Ya has enviado una solicitud a este usuario")
)

// RequestService owns the chat-request lifecycle: creating a pending
// conversation plus its linked request, and resolving the request.
type RequestService struct {
	Dynamo *DynamoService
}

// SendRequest creates a pending Conversation and a linked ChatRequest from
// one user to another. It refuses when the pair already shares a
// conversation or when an identical pending request exists.
//
// The two creates are sequential writes, not a transaction: if the request
// write fails after the conversation write succeeded, the orphan pending
// conversation remains. The returned error names the orphan so operators
// can reconcile.
func (rs *RequestService) SendRequest(ctx context.Context, fromUserID, toUserID string) (*models.ChatRequest, error) {
	if fromUserID == "" || toUserID == "" {
		return nil, errors.New("fromUserId and toUserId are required")
	}
	if fromUserID == toUserID {
		return nil, ErrSelfRequest
	}

	log.Printf("📤 Sending chat request %s -> %s", fromUserID, toUserID)

	exists, err := rs.conversationExists(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConversationExists
	}

	pending, err := rs.hasPendingRequest(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrRequestAlreadyExists
	}

	now := time.Now().UTC().Format(time.RFC3339)
	conversation := models.Conversation{
		ConversationID: uuid.NewString(),
		Participants:   []string{fromUserID, toUserID},
		Status:         models.ConversationPending,
		CreatedBy:      fromUserID,
		UnreadCount:    map[string]int{fromUserID: 0, toUserID: 0},
		PendingFor:     map[string]bool{fromUserID: false, toUserID: false},
		LastReadAt:     map[string]string{fromUserID: now, toUserID: now},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := rs.Dynamo.PutItem(ctx, models.ConversationsTable, conversation); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	log.Printf("✅ Conversation created: %s", conversation.ConversationID)

	request := models.ChatRequest{
		RequestID:      uuid.NewString(),
		FromUserID:     fromUserID,
		ToUserID:       toUserID,
		ConversationID: conversation.ConversationID,
		Status:         models.RequestPending,
		CreatedAt:      now,
	}

	if err := rs.Dynamo.PutItem(ctx, models.ChatRequestsTable, request); err != nil {
		return nil, fmt.Errorf("failed to create chat request (conversation %s left pending): %w", conversation.ConversationID, err)
	}
	log.Printf("✅ Chat request created: %s", request.RequestID)

	return &request, nil
}

// AcceptRequest flips the request to accepted and activates the linked
// conversation. Re-accepting an already resolved request overwrites the
// status again; there is no guard.
func (rs *RequestService) AcceptRequest(ctx context.Context, requestID, conversationID string) error {
	log.Printf("✅ Accepting chat request: %s", requestID)

	now := time.Now().UTC().Format(time.RFC3339)
	if err := rs.updateRequestStatus(ctx, requestID, models.RequestAccepted, now); err != nil {
		return err
	}

	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	updateExpression := "SET #status = :status, acceptedAt = :acceptedAt, #updatedAt = :updatedAt"
	expressionValues := map[string]types.AttributeValue{
		":status":     &types.AttributeValueMemberS{Value: models.ConversationActive},
		":acceptedAt": &types.AttributeValueMemberS{Value: now},
		":updatedAt":  &types.AttributeValueMemberS{Value: now},
	}
	expressionNames := map[string]string{
		"#status":    "status",
		"#updatedAt": "updatedAt",
	}

	if _, err := rs.Dynamo.UpdateItem(ctx, models.ConversationsTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		return fmt.Errorf("failed to activate conversation %s: %w", conversationID, err)
	}

	return nil
}

// RejectRequest flips the request to rejected. The linked conversation is
// left untouched in pending status; no cleanup path exists.
func (rs *RequestService) RejectRequest(ctx context.Context, requestID string) error {
	log.Printf("❌ Rejecting chat request: %s", requestID)
	now := time.Now().UTC().Format(time.RFC3339)
	return rs.updateRequestStatus(ctx, requestID, models.RequestRejected, now)
}

func (rs *RequestService) updateRequestStatus(ctx context.Context, requestID, status, respondedAt string) error {
	key := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
	updateExpression := "SET #status = :status, respondedAt = :respondedAt"
	expressionValues := map[string]types.AttributeValue{
		":status":      &types.AttributeValueMemberS{Value: status},
		":respondedAt": &types.AttributeValueMemberS{Value: respondedAt},
	}
	expressionNames := map[string]string{"#status": "status"}

	if _, err := rs.Dynamo.UpdateItem(ctx, models.ChatRequestsTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		return fmt.Errorf("failed to update request %s: %w", requestID, err)
	}
	return nil
}

// GetIncomingRequests returns pending requests addressed to the user.
func (rs *RequestService) GetIncomingRequests(ctx context.Context, userID string) ([]models.ChatRequest, error) {
	return rs.queryPendingRequests(ctx, models.RequestToIndex, "toUserId", userID)
}

// GetOutgoingRequests returns pending requests the user has sent.
func (rs *RequestService) GetOutgoingRequests(ctx context.Context, userID string) ([]models.ChatRequest, error) {
	return rs.queryPendingRequests(ctx, models.RequestFromIndex, "fromUserId", userID)
}

func (rs *RequestService) queryPendingRequests(ctx context.Context, index, keyAttr, userID string) ([]models.ChatRequest, error) {
	keyCondition := keyAttr + " = :uid"
	expressionValues := map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := rs.Dynamo.QueryItemsWithIndex(ctx, models.ChatRequestsTable, index, keyCondition, expressionValues, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	var all []models.ChatRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &all); err != nil {
		return nil, fmt.Errorf("failed to parse requests: %w", err)
	}

	// Resolved requests stay stored; only pending ones surface in the UI.
	pending := make([]models.ChatRequest, 0, len(all))
	for _, r := range all {
		if r.Status == models.RequestPending {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// GetConversation fetches a single conversation by id.
func (rs *RequestService) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	item, err := rs.Dynamo.GetItem(ctx, models.ConversationsTable, key)
	if err != nil {
		return nil, err
	}

	var conversation models.Conversation
	if err := attributevalue.UnmarshalMap(item, &conversation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conversation, nil
}

// GetConversations returns every conversation the user participates in.
// Participants is a list attribute, so this is a filtered scan like the
// profile browse path.
func (rs *RequestService) GetConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := rs.Dynamo.ScanWithFilter(ctx, models.ConversationsTable, func(item map[string]types.AttributeValue) bool {
		return itemHasParticipant(item, userID)
	}, &conversations)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}

	log.Printf("✅ Found %d conversations for %s", len(conversations), userID)
	return conversations, nil
}

func (rs *RequestService) conversationExists(ctx context.Context, userA, userB string) (bool, error) {
	var matches []models.Conversation
	err := rs.Dynamo.ScanWithFilter(ctx, models.ConversationsTable, func(item map[string]types.AttributeValue) bool {
		return itemHasParticipant(item, userA) && itemHasParticipant(item, userB)
	}, &matches)
	if err != nil {
		return false, fmt.Errorf("failed to check existing conversations: %w", err)
	}
	return len(matches) > 0, nil
}

func (rs *RequestService) hasPendingRequest(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	requests, err := rs.GetOutgoingRequests(ctx, fromUserID)
	if err != nil {
		return false, err
	}
	for _, r := range requests {
		if r.ToUserID == toUserID {
			return true, nil
		}
	}
	return false, nil
}

func itemHasParticipant(item map[string]types.AttributeValue, userID string) bool {
	attr, ok := item["participants"]
	if !ok {
		return false
	}
	list, ok := attr.(*types.AttributeValueMemberL)
	if !ok {
		return false
	}
	for _, entry := range list.Value {
		if s, ok := entry.(*types.AttributeValueMemberS); ok && s.Value == userID {
			return true
		}
	}
	return false
}
