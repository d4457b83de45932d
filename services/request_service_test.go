package services

import (
	"context"
	"testing"

	"github.com/Staillim/GeoChat/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequestToSelf(t *testing.T) {
	client := &fakeDynamoClient{}
	service := &RequestService{Dynamo: &DynamoService{Client: client}}

	_, err := service.SendRequest(context.Background(), "user-1", "user-1")
	assert.ErrorIs(t, err, ErrSelfRequest)
	assert.Empty(t, client.putInputs)
}

func TestSendRequestDuplicateConversation(t *testing.T) {
	existing := mustMarshal(t, models.Conversation{
		ConversationID: "conv-1",
		Participants:   []string{"user-1", "user-2"},
		Status:         models.ConversationActive,
	})

	client := &fakeDynamoClient{}
	client.scanFn = func(input *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
		return &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{existing}}, nil
	}
	service := &RequestService{Dynamo: &DynamoService{Client: client}}

	_, err := service.SendRequest(context.Background(), "user-1", "user-2")
	assert.ErrorIs(t, err, ErrConversationExists)
	assert.Empty(t, client.putInputs)
}

func TestSendRequestDuplicatePending(t *testing.T) {
	pending := mustMarshal(t, models.ChatRequest{
		RequestID:  "req-1",
		FromUserID: "user-1",
		ToUserID:   "user-2",
		Status:     models.RequestPending,
	})

	client := &fakeDynamoClient{}
	client.queryFn = func(input *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
		return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{pending}}, nil
	}
	service := &RequestService{Dynamo: &DynamoService{Client: client}}

	_, err := service.SendRequest(context.Background(), "user-1", "user-2")
	assert.ErrorIs(t, err, ErrRequestAlreadyExists)
	assert.Empty(t, client.putInputs)
}

func TestSendRequestCreatesConversationAndRequest(t *testing.T) {
	client := &fakeDynamoClient{}
	service := &RequestService{Dynamo: &DynamoService{Client: client}}

	request, err := service.SendRequest(context.Background(), "user-1", "user-2")
	require.NoError(t, err)
	require.Len(t, client.putInputs, 2)

	assert.Equal(t, models.ConversationsTable, *client.putInputs[0].TableName)
	var conversation models.Conversation
	require.NoError(t, attributevalue.UnmarshalMap(client.putInputs[0].Item, &conversation))
	assert.Equal(t, models.ConversationPending, conversation.Status)
	assert.Equal(t, "user-1", conversation.CreatedBy)
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, conversation.Participants)
	assert.Equal(t, map[string]int{"user-1": 0, "user-2": 0}, conversation.UnreadCount)
	assert.Contains(t, conversation.LastReadAt, "user-1")
	assert.Contains(t, conversation.LastReadAt, "user-2")

	assert.Equal(t, models.ChatRequestsTable, *client.putInputs[1].TableName)
	var stored models.ChatRequest
	require.NoError(t, attributevalue.UnmarshalMap(client.putInputs[1].Item, &stored))
	assert.Equal(t, models.RequestPending, stored.Status)
	assert.Equal(t, conversation.ConversationID, stored.ConversationID)
	assert.Equal(t, request.RequestID, stored.RequestID)
}

func TestAcceptRequestActivatesConversation(t *testing.T) {
	client := &fakeDynamoClient{}
	service := &RequestService{Dynamo: &DynamoService{Client: client}}

	require.NoError(t, service.AcceptRequest(context.Background(), "req-1", "conv-1"))
	require.Len(t, client.updateInputs, 2)

	requestUpdate := client.updateInputs[0]
	assert.Equal(t, models.ChatRequestsTable, *requestUpdate.TableName)
	status := requestUpdate.ExpressionAttributeValues[":status"].(*types.AttributeValueMemberS)
	assert.Equal(t, models.RequestAccepted, status.Value)

	conversationUpdate := client.updateInputs[1]
	assert.Equal(t, models.ConversationsTable, *conversationUpdate.TableName)
	status = conversationUpdate.ExpressionAttributeValues[":status"].(*types.AttributeValueMemberS)
	assert.Equal(t, models.ConversationActive, status.Value)
	assert.Contains(t, *conversationUpdate.UpdateExpression, "acceptedAt")
}

func TestRejectRequestLeavesConversationPending(t *testing.T) {
	client := &fakeDynamoClient{}
	service := &RequestService{Dynamo: &DynamoService{Client: client}}

	require.NoError(t, service.RejectRequest(context.Background(), "req-1"))

	// Only the request flips; the linked conversation is never touched.
	require.Len(t, client.updateInputs, 1)
	update := client.updateInputs[0]
	assert.Equal(t, models.ChatRequestsTable, *update.TableName)
	status := update.ExpressionAttributeValues[":status"].(*types.AttributeValueMemberS)
	assert.Equal(t, models.RequestRejected, status.Value)
}

func TestQueryPendingRequestsFiltersResolved(t *testing.T) {
	items := []map[string]types.AttributeValue{
		mustMarshal(t, models.ChatRequest{RequestID: "r1", ToUserID: "user-2", Status: models.RequestPending}),
		mustMarshal(t, models.ChatRequest{RequestID: "r2", ToUserID: "user-2", Status: models.RequestAccepted}),
		mustMarshal(t, models.ChatRequest{RequestID: "r3", ToUserID: "user-2", Status: models.RequestRejected}),
	}

	client := &fakeDynamoClient{}
	client.queryFn = func(input *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
		assert.Equal(t, models.RequestToIndex, *input.IndexName)
		return &dynamodb.QueryOutput{Items: items}, nil
	}
	service := &RequestService{Dynamo: &DynamoService{Client: client}}

	pending, err := service.GetIncomingRequests(context.Background(), "user-2")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "r1", pending[0].RequestID)
}

func TestGetConversationsFiltersByParticipant(t *testing.T) {
	items := []map[string]types.AttributeValue{
		mustMarshal(t, models.Conversation{ConversationID: "c1", Participants: []string{"user-1", "user-2"}}),
		mustMarshal(t, models.Conversation{ConversationID: "c2", Participants: []string{"user-3", "user-4"}}),
		mustMarshal(t, models.Conversation{ConversationID: "c3", Participants: []string{"user-2", "user-1"}}),
	}

	client := &fakeDynamoClient{}
	client.scanFn = func(input *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
		return &dynamodb.ScanOutput{Items: items}, nil
	}
	service := &RequestService{Dynamo: &DynamoService{Client: client}}

	conversations, err := service.GetConversations(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, "c1", conversations[0].ConversationID)
	assert.Equal(t, "c3", conversations[1].ConversationID)
}
