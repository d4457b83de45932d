package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/Staillim/GeoChat/models"
	"github.com/Staillim/GeoChat/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Validation errors surfaced to the user as-is.
var (
	ErrInvalidPin  = errors.New("El PIN debe tener exactamente 6 dígitos")
	ErrOwnPin      = errors.New("No puedes enviarte una solicitud a ti mismo")
	ErrPinNotFound = errors.New("pin not found")
)

type UserProfileService struct {
	Dynamo *DynamoService
}

// AddUserProfile adds a new user profile to DynamoDB. A 6-digit PIN is
// generated when the caller did not supply one.
func (ups *UserProfileService) AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if profile.UserID == "" {
		return nil, errors.New("userId is required")
	}

	if profile.Pin == "" {
		pin, err := utils.GeneratePin()
		if err != nil {
			return nil, err
		}
		profile.Pin = pin
	}

	now := time.Now().UTC().Format(time.RFC3339)
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return nil, err
	}

	log.Printf("✅ Profile created for %s", profile.UserID)
	return &profile, nil
}

// GetUserProfile retrieves a user profile by ID
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

// UpdateUserProfile updates mutable profile fields (displayName, bio,
// photoURL) with a field-path SET expression.
func (ups *UserProfileService) UpdateUserProfile(ctx context.Context, userID string, updates map[string]string) (*models.UserProfile, error) {
	if len(updates) == 0 {
		return nil, errors.New("no fields to update")
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "SET"
	expressionValues := make(map[string]types.AttributeValue)
	expressionNames := make(map[string]string)

	for k, v := range updates {
		placeholder := ":" + k
		attributeName := "#" + k
		updateExpression += " " + attributeName + " = " + placeholder + ","
		expressionValues[placeholder] = &types.AttributeValueMemberS{Value: v}
		expressionNames[attributeName] = k
	}
	updateExpression += " #updatedAt = :updatedAt"
	expressionValues[":updatedAt"] = &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)}
	expressionNames["#updatedAt"] = "updatedAt"

	updatedItem, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, expressionNames)
	if err != nil {
		return nil, err
	}

	var updatedProfile models.UserProfile
	if err := attributevalue.UnmarshalMap(updatedItem, &updatedProfile); err != nil {
		return nil, err
	}

	return &updatedProfile, nil
}

// DeleteUserProfile removes a user profile from DynamoDB
func (ups *UserProfileService) DeleteUserProfile(ctx context.Context, userID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	return ups.Dynamo.DeleteItem(ctx, models.UserProfilesTable, key)
}

// SearchByPin resolves a profile from its 6-digit PIN via the pin-index GSI.
// Looking up your own PIN is rejected so users cannot request themselves.
func (ups *UserProfileService) SearchByPin(ctx context.Context, requesterID, pin string) (*models.UserProfile, error) {
	if !utils.IsValidPin(pin) {
		return nil, ErrInvalidPin
	}

	log.Printf("🔍 Searching for user with PIN: %s", pin)

	keyCondition := "pin = :pin"
	expressionValues := map[string]types.AttributeValue{
		":pin": &types.AttributeValueMemberS{Value: pin},
	}

	items, err := ups.Dynamo.QueryItemsWithIndex(ctx, models.UserProfilesTable, models.UserPinIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to search by pin: %w", err)
	}

	if len(items) == 0 {
		return nil, ErrPinNotFound
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(items[0], &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	if profile.UserID == requesterID {
		return nil, ErrOwnPin
	}

	log.Printf("✅ User found for PIN %s: %s", pin, profile.UserID)
	return &profile, nil
}

// RegeneratePin assigns a fresh random PIN to the user and returns it.
func (ups *UserProfileService) RegeneratePin(ctx context.Context, userID string) (string, error) {
	pin, err := utils.GeneratePin()
	if err != nil {
		return "", err
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	updateExpression := "SET pin = :pin, #updatedAt = :updatedAt"
	expressionValues := map[string]types.AttributeValue{
		":pin":       &types.AttributeValueMemberS{Value: pin},
		":updatedAt": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}
	expressionNames := map[string]string{"#updatedAt": "updatedAt"}

	if _, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		return "", err
	}

	log.Printf("🔄 PIN regenerated for %s", userID)
	return pin, nil
}

// UpdateLocation stores the user's last reported coordinates. Clients post
// here from the map screen; the live-location channel reads them back.
func (ups *UserProfileService) UpdateLocation(ctx context.Context, userID string, latitude, longitude float64) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	updateExpression := "SET latitude = :lat, longitude = :lng, #updatedAt = :updatedAt"
	expressionValues := map[string]types.AttributeValue{
		":lat":       &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", latitude)},
		":lng":       &types.AttributeValueMemberN{Value: fmt.Sprintf("%f", longitude)},
		":updatedAt": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}
	expressionNames := map[string]string{"#updatedAt": "updatedAt"}

	_, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, expressionNames)
	return err
}

// GetNearbyUsers scans profiles and returns those within radiusKm of the
// requesting user, with the computed distance attached.
func (ups *UserProfileService) GetNearbyUsers(ctx context.Context, userID string, radiusKm float64) ([]models.UserProfile, error) {
	self, err := ups.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile for %s: %w", userID, err)
	}

	if self.Latitude == 0 && self.Longitude == 0 {
		return nil, errors.New("user has no reported location")
	}

	var profiles []models.UserProfile
	err = ups.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "userId") != userID
	}, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nearby profiles: %w", err)
	}

	nearby := make([]models.UserProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.Latitude == 0 && p.Longitude == 0 {
			continue
		}
		distance := utils.CalculateDistance(self.Latitude, self.Longitude, p.Latitude, p.Longitude)
		if distance > radiusKm {
			continue
		}
		p.Distance = math.Round(distance*100) / 100
		nearby = append(nearby, p)
	}

	log.Printf("✅ Found %d users within %.1f km of %s", len(nearby), radiusKm, userID)
	return nearby, nil
}
