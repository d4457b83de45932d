package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Staillim/GeoChat/models"
	"github.com/Staillim/GeoChat/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// Message validation errors, surfaced to the user as-is.
var (
	ErrEmptyMessage          = errors.New("El mensaje no puede estar vacío")
	ErrMissingImage          = errors.New("La imagen no puede estar vacía")
	ErrMissingLocation       = errors.New("La ubicación requiere latitud y longitud")
	ErrUnknownMessageType    = errors.New("tipo de mensaje no soportado")
	ErrConversationNotActive = errors.New("La conversación no está activa")
	ErrNotParticipant        = errors.New("sender is not a participant of the conversation")
)

// Broadcaster pushes new messages to subscribed clients. Satisfied by the
// socket.io server.
type Broadcaster interface {
	BroadcastToRoom(namespace string, room string, event string, args ...interface{}) bool
}

// ChatService appends messages and maintains the conversation's denormalized
// summary (lastMessage, unread counters, pendingFor flags).
type ChatService struct {
	Dynamo *DynamoService
	Hub    Broadcaster
}

// transactionLimit is DynamoDB's cap on items per transactional write.
// Read receipts beyond it are picked up the next time the chat opens.
const transactionLimit = 100

// Message fetch bounds. Out-of-range limits fall back to the default
// instead of reaching DynamoDB, which rejects non-positive values.
const (
	defaultMessageFetch = 50
	maxMessageFetch     = 200
)

// SendMessage validates the payload, appends the message document and then
// updates the conversation summary. The two writes are deliberately
// sequential, not transactional: a crash in between leaves the message
// persisted with a stale summary until the next dispatch.
func (s *ChatService) SendMessage(ctx context.Context, message models.Message) (*models.Message, error) {
	if message.ConversationID == "" || message.SenderID == "" {
		return nil, errors.New("conversationId and senderId are required")
	}
	if err := validatePayload(&message); err != nil {
		return nil, err
	}

	conversation, err := s.getConversation(ctx, message.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(message.SenderID) {
		return nil, ErrNotParticipant
	}
	if conversation.Status != models.ConversationActive {
		return nil, ErrConversationNotActive
	}
	recipient := conversation.OtherParticipant(message.SenderID)

	if message.MessageID == "" {
		message.MessageID = uuid.NewString()
	}
	// Nanosecond precision keeps the sort key strictly increasing per
	// conversation.
	message.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	message.Read = false
	message.ReadAt = ""

	log.Printf("📩 Storing %s message %s in conversation %s", message.Type, message.MessageID, message.ConversationID)

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	if err := s.updateSummary(ctx, conversation.ConversationID, &message, recipient); err != nil {
		// Message is already persisted; the summary will converge on the
		// next successful dispatch.
		return nil, fmt.Errorf("message stored but summary update failed: %w", err)
	}

	if s.Hub != nil {
		s.Hub.BroadcastToRoom("/", message.ConversationID, "newMessage", message)
	}

	log.Printf("✅ Message %s dispatched", message.MessageID)
	return &message, nil
}

func validatePayload(message *models.Message) error {
	if message.Type == "" {
		message.Type = models.MessageTypeText
	}
	switch message.Type {
	case models.MessageTypeText:
		message.Text = strings.TrimSpace(message.Text)
		if message.Text == "" {
			return ErrEmptyMessage
		}
	case models.MessageTypeImage:
		if message.ImageKey == "" && message.ImageBase64 == "" {
			return ErrMissingImage
		}
	case models.MessageTypeLocation:
		if message.Location == nil || (message.Location.Latitude == 0 && message.Location.Longitude == 0) {
			return ErrMissingLocation
		}
		if message.Location.Timestamp == "" {
			message.Location.Timestamp = time.Now().UTC().Format(time.RFC3339)
		}
	default:
		return ErrUnknownMessageType
	}
	return nil
}

// updateSummary rewrites the conversation's denormalized fields: preview,
// last sender, per-recipient unread increment and pendingFor flags.
func (s *ChatService) updateSummary(ctx context.Context, conversationID string, message *models.Message, recipient string) error {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}

	updateExpression := "SET lastMessage = :preview, lastMessageTime = :time, lastMessageSenderId = :sender, " +
		"#pf.#recipient = :true, #pf.#sender = :false, #updatedAt = :time " +
		"ADD #uc.#recipient :one"
	expressionValues := map[string]types.AttributeValue{
		":preview": &types.AttributeValueMemberS{Value: message.Preview()},
		":time":    &types.AttributeValueMemberS{Value: message.CreatedAt},
		":sender":  &types.AttributeValueMemberS{Value: message.SenderID},
		":true":    &types.AttributeValueMemberBOOL{Value: true},
		":false":   &types.AttributeValueMemberBOOL{Value: false},
		":one":     &types.AttributeValueMemberN{Value: "1"},
	}
	expressionNames := map[string]string{
		"#pf":        "pendingFor",
		"#uc":        "unreadCount",
		"#recipient": recipient,
		"#sender":    message.SenderID,
		"#updatedAt": "updatedAt",
	}

	_, err := s.Dynamo.UpdateItem(ctx, models.ConversationsTable, updateExpression, key, expressionValues, expressionNames)
	return err
}

// GetMessages fetches the latest messages newest-first, then reverses so the
// latest appears at the bottom in the UI.
func (s *ChatService) GetMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > maxMessageFetch {
		limit = defaultMessageFetch
	}

	keyCondition := "conversationId = :conversationId"
	expressionValues := map[string]types.AttributeValue{
		":conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, int32(limit), true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// MarkAsRead zeroes the user's unread counter and stamps lastReadAt.
// Idempotent; opening an already-read conversation is a no-op write.
func (s *ChatService) MarkAsRead(ctx context.Context, conversationID, userID string) error {
	if conversationID == "" || userID == "" {
		return errors.New("conversationId and userId are required")
	}

	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	updateExpression := "SET #uc.#uid = :zero, #lra.#uid = :now"
	expressionValues := map[string]types.AttributeValue{
		":zero": &types.AttributeValueMemberN{Value: "0"},
		":now":  &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}
	expressionNames := map[string]string{
		"#uc":  "unreadCount",
		"#lra": "lastReadAt",
		"#uid": userID,
	}

	if _, err := s.Dynamo.UpdateItem(ctx, models.ConversationsTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		return fmt.Errorf("failed to reset unread count: %w", err)
	}
	return nil
}

// MarkMessagesRead flags every unread peer message in the conversation as
// read, in one transactional batch. Unread messages are queried by the read
// flag only and the sender is filtered in memory, avoiding a composite
// index on (read, senderId).
func (s *ChatService) MarkMessagesRead(ctx context.Context, conversationID, userID string) (int, error) {
	if conversationID == "" || userID == "" {
		return 0, errors.New("conversationId and userId are required")
	}

	keyCondition := "conversationId = :conversationId"
	expressionValues := map[string]types.AttributeValue{
		":conversationId": &types.AttributeValueMemberS{Value: conversationID},
		":false":          &types.AttributeValueMemberBOOL{Value: false},
	}
	expressionNames := map[string]string{"#read": "read"}

	items, err := s.Dynamo.QueryItemsWithFilters(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, "#read = :false")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch unread messages: %w", err)
	}

	var unread []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &unread); err != nil {
		return 0, fmt.Errorf("failed to parse unread messages: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var updates []types.TransactWriteItem
	for _, m := range unread {
		if m.SenderID == userID {
			continue
		}
		updates = append(updates, types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(models.MessagesTable),
				Key: map[string]types.AttributeValue{
					"conversationId": &types.AttributeValueMemberS{Value: m.ConversationID},
					"createdAt":      &types.AttributeValueMemberS{Value: m.CreatedAt},
				},
				UpdateExpression: aws.String("SET #read = :true, readAt = :now"),
				ExpressionAttributeNames: map[string]string{
					"#read": "read",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":true": &types.AttributeValueMemberBOOL{Value: true},
					":now":  &types.AttributeValueMemberS{Value: now},
				},
			},
		})
		if len(updates) == transactionLimit {
			break
		}
	}

	if len(updates) == 0 {
		return 0, nil
	}

	if err := s.Dynamo.TransactWriteItems(ctx, updates); err != nil {
		return 0, err
	}

	log.Printf("✅ Marked %d messages as read in conversation %s", len(updates), conversationID)
	return len(updates), nil
}

// GetSharedLocations aggregates the latest location message each peer
// posted across the user's active conversations, one entry per sender.
// Location messages are queried by type only and ordered client-side,
// avoiding a composite index on (type, createdAt).
func (s *ChatService) GetSharedLocations(ctx context.Context, userID string) ([]models.SharedLocation, error) {
	if userID == "" {
		return nil, errors.New("userId is required")
	}

	var conversations []models.Conversation
	err := s.Dynamo.ScanWithFilter(ctx, models.ConversationsTable, func(item map[string]types.AttributeValue) bool {
		if utils.ExtractString(item, "status") != models.ConversationActive {
			return false
		}
		return itemHasParticipant(item, userID)
	}, &conversations)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}

	shared := make([]models.SharedLocation, 0)
	for _, conversation := range conversations {
		keyCondition := "conversationId = :conversationId"
		expressionValues := map[string]types.AttributeValue{
			":conversationId": &types.AttributeValueMemberS{Value: conversation.ConversationID},
			":location":       &types.AttributeValueMemberS{Value: models.MessageTypeLocation},
		}
		expressionNames := map[string]string{"#type": "type"}

		items, err := s.Dynamo.QueryItemsWithFilters(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, "#type = :location")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch location messages: %w", err)
		}

		var messages []models.Message
		if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
			return nil, fmt.Errorf("failed to parse location messages: %w", err)
		}

		// Query results come back ascending by createdAt, so overwriting
		// per sender leaves the newest location for each peer.
		latest := make(map[string]models.Message)
		for _, m := range messages {
			if m.SenderID == userID || m.Location == nil {
				continue
			}
			latest[m.SenderID] = m
		}

		for _, m := range latest {
			shared = append(shared, models.SharedLocation{
				UserID:         m.SenderID,
				UserName:       m.SenderName,
				UserPhoto:      m.SenderPhotoURL,
				Latitude:       m.Location.Latitude,
				Longitude:      m.Location.Longitude,
				Timestamp:      m.Location.Timestamp,
				ConversationID: conversation.ConversationID,
			})
		}
	}

	log.Printf("✅ Found %d shared locations for %s", len(shared), userID)
	return shared, nil
}

func (s *ChatService) getConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.ConversationsTable, key)
	if err != nil {
		return nil, err
	}

	var conversation models.Conversation
	if err := attributevalue.UnmarshalMap(item, &conversation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conversation, nil
}
