package services

import (
	"context"
	"testing"
	"time"

	"github.com/Staillim/GeoChat/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider struct {
	lat, lng float64
	err      error
}

func (p *staticProvider) CurrentPosition(ctx context.Context, userID string) (float64, float64, error) {
	return p.lat, p.lng, p.err
}

// profileClient answers GetItem against UserProfiles from an in-memory map.
func profileClient(t *testing.T, profiles map[string]models.UserProfile) *fakeDynamoClient {
	t.Helper()
	client := &fakeDynamoClient{}
	client.getFn = func(input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
		if *input.TableName != models.UserProfilesTable {
			return &dynamodb.GetItemOutput{}, nil
		}
		key := input.Key["userId"].(*types.AttributeValueMemberS)
		profile, ok := profiles[key.Value]
		if !ok {
			return &dynamodb.GetItemOutput{}, nil
		}
		return &dynamodb.GetItemOutput{Item: mustMarshal(t, profile)}, nil
	}
	return client
}

func newTestLiveLocationService(client *fakeDynamoClient) *LiveLocationService {
	dynamo := &DynamoService{Client: client}
	profiles := &UserProfileService{Dynamo: dynamo}
	service := NewLiveLocationService(dynamo, profiles)
	// Keep the ticker out of the way; tests drive writes explicitly.
	service.Interval = time.Hour
	return service
}

func TestRequestLocationSharing(t *testing.T) {
	client := profileClient(t, map[string]models.UserProfile{
		"user-2": {UserID: "user-2"},
	})
	service := newTestLiveLocationService(client)

	require.NoError(t, service.RequestLocationSharing(context.Background(), "user-1", "user-2"))

	require.Len(t, client.updateInputs, 1)
	update := client.updateInputs[0]
	assert.Equal(t, models.UserProfilesTable, *update.TableName)
	assert.Contains(t, *update.UpdateExpression, "ADD")
	assert.Equal(t, "locationSharingRequests", update.ExpressionAttributeNames["#attr"])
	member := update.ExpressionAttributeValues[":member"].(*types.AttributeValueMemberSS)
	assert.Equal(t, []string{"user-1"}, member.Value)
}

func TestRequestLocationSharingAlreadyRequested(t *testing.T) {
	client := profileClient(t, map[string]models.UserProfile{
		"user-2": {UserID: "user-2", LocationSharingRequests: []string{"user-1"}},
	})
	service := newTestLiveLocationService(client)

	err := service.RequestLocationSharing(context.Background(), "user-1", "user-2")
	assert.ErrorIs(t, err, ErrAlreadyRequested)
	assert.Empty(t, client.updateInputs)
}

func TestAcceptLocationSharingGrantsMutualVisibility(t *testing.T) {
	client := profileClient(t, map[string]models.UserProfile{
		"user-1": {UserID: "user-1"},
		"user-2": {UserID: "user-2", LocationSharingRequests: []string{"user-1"}},
	})
	service := newTestLiveLocationService(client)

	require.NoError(t, service.AcceptLocationSharing(context.Background(), "user-2", "user-1"))
	require.Len(t, client.updateInputs, 3)

	// Request removed from the owner, then both sides gain each other.
	assert.Contains(t, *client.updateInputs[0].UpdateExpression, "DELETE")
	assert.Equal(t, "locationSharingRequests", client.updateInputs[0].ExpressionAttributeNames["#attr"])

	assert.Contains(t, *client.updateInputs[1].UpdateExpression, "ADD")
	assert.Equal(t, "locationSharingWith", client.updateInputs[1].ExpressionAttributeNames["#attr"])
	owner := client.updateInputs[1].Key["userId"].(*types.AttributeValueMemberS)
	assert.Equal(t, "user-2", owner.Value)

	requester := client.updateInputs[2].Key["userId"].(*types.AttributeValueMemberS)
	assert.Equal(t, "user-1", requester.Value)
}

func TestStartSharingRequiresMutualPermission(t *testing.T) {
	// user-1 shares with user-2 but not the other way around.
	client := profileClient(t, map[string]models.UserProfile{
		"user-1": {UserID: "user-1", LocationSharingWith: []string{"user-2"}, Latitude: 40.4, Longitude: -3.7},
		"user-2": {UserID: "user-2"},
	})
	service := newTestLiveLocationService(client)

	err := service.StartSharing(context.Background(), "user-1", "user-2")
	assert.ErrorIs(t, err, ErrNoMutualPermission)
	assert.Empty(t, client.putInputs)
	assert.Empty(t, service.ActiveShares("user-1"))
}

func TestStartAndStopSharing(t *testing.T) {
	client := profileClient(t, map[string]models.UserProfile{
		"user-1": {UserID: "user-1", DisplayName: "Ana", LocationSharingWith: []string{"user-2"}},
		"user-2": {UserID: "user-2", LocationSharingWith: []string{"user-1"}},
	})
	service := newTestLiveLocationService(client)
	service.Provider = &staticProvider{lat: 40.4168, lng: -3.7038}
	defer service.Close()

	require.NoError(t, service.StartSharing(context.Background(), "user-1", "user-2"))

	require.Len(t, client.putInputs, 1)
	assert.Equal(t, models.LiveLocationsTable, *client.putInputs[0].TableName)
	locationID := client.putInputs[0].Item["locationId"].(*types.AttributeValueMemberS)
	assert.Equal(t, "user-1_user-2", locationID.Value)
	assert.Equal(t, []string{"user-1_user-2"}, service.ActiveShares("user-1"))

	require.NoError(t, service.StopSharing(context.Background(), "user-1", "user-2"))

	require.Len(t, client.deleteInputs, 1)
	assert.Equal(t, models.LiveLocationsTable, *client.deleteInputs[0].TableName)
	assert.Empty(t, service.ActiveShares("user-1"))
}

func TestStartSharingWithoutPosition(t *testing.T) {
	client := profileClient(t, map[string]models.UserProfile{
		"user-1": {UserID: "user-1", LocationSharingWith: []string{"user-2"}},
		"user-2": {UserID: "user-2", LocationSharingWith: []string{"user-1"}},
	})
	service := newTestLiveLocationService(client)
	service.Provider = &staticProvider{err: ErrNoPosition}

	err := service.StartSharing(context.Background(), "user-1", "user-2")
	assert.ErrorIs(t, err, ErrNoPosition)
	assert.Empty(t, client.putInputs)
}

func TestStopSharingIsIdempotent(t *testing.T) {
	client := profileClient(t, nil)
	service := newTestLiveLocationService(client)

	// Stopping a share that never started still clears the document.
	require.NoError(t, service.StopSharing(context.Background(), "user-1", "user-2"))
	assert.Len(t, client.deleteInputs, 1)
}

func TestListLiveLocations(t *testing.T) {
	items := []map[string]types.AttributeValue{
		mustMarshal(t, models.LiveLocation{LocationID: "me_user-2", UserID: "me", SharedWith: "user-2", IsActive: true}),
		mustMarshal(t, models.LiveLocation{LocationID: "user-3_me", UserID: "user-3", SharedWith: "me", IsActive: true}),
		mustMarshal(t, models.LiveLocation{LocationID: "user-4_me", UserID: "user-4", SharedWith: "me", IsActive: false}),
		mustMarshal(t, models.LiveLocation{LocationID: "user-5_user-6", UserID: "user-5", SharedWith: "user-6", IsActive: true}),
	}

	client := &fakeDynamoClient{}
	client.scanFn = func(input *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
		assert.Equal(t, models.LiveLocationsTable, *input.TableName)
		return &dynamodb.ScanOutput{Items: items}, nil
	}
	service := newTestLiveLocationService(client)

	// Both directions surface; inactive and unrelated documents do not.
	locations, err := service.ListLiveLocations(context.Background(), "me")
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "me_user-2", locations[0].LocationID)
	assert.Equal(t, "user-3_me", locations[1].LocationID)
}

func TestGetSharedLocation(t *testing.T) {
	tests := []struct {
		name     string
		stored   *models.LiveLocation
		wantErr  error
		wantUser string
	}{
		{
			name:    "no document",
			wantErr: ErrItemNotFound,
		},
		{
			name: "inactive document",
			stored: &models.LiveLocation{
				LocationID: "user-1_user-2",
				UserID:     "user-1",
				SharedWith: "user-2",
				IsActive:   false,
			},
			wantErr: ErrItemNotFound,
		},
		{
			name: "shared with someone else",
			stored: &models.LiveLocation{
				LocationID: "user-1_user-2",
				UserID:     "user-1",
				SharedWith: "user-3",
				IsActive:   true,
			},
			wantErr: ErrItemNotFound,
		},
		{
			name: "active share",
			stored: &models.LiveLocation{
				LocationID: "user-1_user-2",
				UserID:     "user-1",
				SharedWith: "user-2",
				IsActive:   true,
				Latitude:   40.4,
				Longitude:  -3.7,
			},
			wantUser: "user-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeDynamoClient{}
			if tt.stored != nil {
				item := mustMarshal(t, tt.stored)
				client.getFn = func(input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
					return &dynamodb.GetItemOutput{Item: item}, nil
				}
			}
			service := newTestLiveLocationService(client)

			location, err := service.GetSharedLocation(context.Background(), "user-2", "user-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, location.UserID)
		})
	}
}
