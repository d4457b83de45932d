package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Staillim/GeoChat/models"
	"github.com/Staillim/GeoChat/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Live-location errors surfaced to the user as-is.
var (
	ErrNoMutualPermission = errors.New("No hay permiso mutuo para compartir ubicación")
	ErrNoPosition         = errors.New("No se pudo obtener ubicación")
	ErrAlreadyRequested   = errors.New("Ya has solicitado compartir ubicación con este usuario")
)

// LocationProvider answers one-shot position requests for a user. The
// default implementation reads the coordinates the user's client last
// reported to the profile service.
type LocationProvider interface {
	CurrentPosition(ctx context.Context, userID string) (latitude, longitude float64, err error)
}

// ProfileLocationProvider resolves positions from the user's profile.
type ProfileLocationProvider struct {
	Profiles *UserProfileService
}

func (p *ProfileLocationProvider) CurrentPosition(ctx context.Context, userID string) (float64, float64, error) {
	profile, err := p.Profiles.GetUserProfile(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrNoPosition, err)
	}
	if profile.Latitude == 0 && profile.Longitude == 0 {
		return 0, 0, ErrNoPosition
	}
	return profile.Latitude, profile.Longitude, nil
}

// defaultShareInterval matches the original 60-second refresh cadence.
const defaultShareInterval = 60 * time.Second

// LiveLocationService manages the pairwise live-location documents and the
// permission sets gating them. Each active directed share runs a ticker
// goroutine that re-reads the provider and overwrites the same document.
type LiveLocationService struct {
	Dynamo   *DynamoService
	Profiles *UserProfileService
	Provider LocationProvider
	Interval time.Duration

	mu     sync.Mutex
	shares map[string]chan struct{}
}

// NewLiveLocationService wires the service with the default profile-backed
// provider and 60s cadence.
func NewLiveLocationService(dynamo *DynamoService, profiles *UserProfileService) *LiveLocationService {
	return &LiveLocationService{
		Dynamo:   dynamo,
		Profiles: profiles,
		Provider: &ProfileLocationProvider{Profiles: profiles},
		Interval: defaultShareInterval,
		shares:   make(map[string]chan struct{}),
	}
}

// RequestLocationSharing records a sharing request on the recipient's
// profile (string-set add, so duplicates collapse).
func (ls *LiveLocationService) RequestLocationSharing(ctx context.Context, fromUserID, toUserID string) error {
	target, err := ls.Profiles.GetUserProfile(ctx, toUserID)
	if err != nil {
		return err
	}
	if target.HasSharingRequestFrom(fromUserID) {
		return ErrAlreadyRequested
	}
	if target.SharesLocationWith(fromUserID) {
		// Permission already granted; nothing to request.
		return nil
	}

	log.Printf("📤 Location sharing request %s -> %s", fromUserID, toUserID)
	return ls.addToSet(ctx, toUserID, "locationSharingRequests", fromUserID)
}

// AcceptLocationSharing removes the pending request and grants mutual
// visibility: each user lands in the other's locationSharingWith set.
func (ls *LiveLocationService) AcceptLocationSharing(ctx context.Context, ownerID, requesterID string) error {
	log.Printf("✅ %s accepted location sharing with %s", ownerID, requesterID)

	if err := ls.removeFromSet(ctx, ownerID, "locationSharingRequests", requesterID); err != nil {
		return err
	}
	if err := ls.addToSet(ctx, ownerID, "locationSharingWith", requesterID); err != nil {
		return err
	}
	return ls.addToSet(ctx, requesterID, "locationSharingWith", ownerID)
}

// RejectLocationSharing drops the pending request without granting anything.
func (ls *LiveLocationService) RejectLocationSharing(ctx context.Context, ownerID, requesterID string) error {
	log.Printf("❌ %s rejected location sharing with %s", ownerID, requesterID)
	return ls.removeFromSet(ctx, ownerID, "locationSharingRequests", requesterID)
}

// HasMutualPermission reports whether both users list each other in their
// locationSharingWith sets.
func (ls *LiveLocationService) HasMutualPermission(ctx context.Context, userA, userB string) (bool, error) {
	profileA, err := ls.Profiles.GetUserProfile(ctx, userA)
	if err != nil {
		return false, err
	}
	profileB, err := ls.Profiles.GetUserProfile(ctx, userB)
	if err != nil {
		return false, err
	}
	return profileA.SharesLocationWith(userB) && profileB.SharesLocationWith(userA), nil
}

// StartSharing begins publishing userID's position to recipientID: an
// immediate write of the pairwise document, then a refresh every Interval
// until StopSharing. The mutual-permission precondition is evaluated here,
// not enforced by the store.
func (ls *LiveLocationService) StartSharing(ctx context.Context, userID, recipientID string) error {
	mutual, err := ls.HasMutualPermission(ctx, userID, recipientID)
	if err != nil {
		return err
	}
	if !mutual {
		return ErrNoMutualPermission
	}

	lat, lng, err := ls.Provider.CurrentPosition(ctx, userID)
	if err != nil {
		return err
	}

	if err := ls.writeLocation(ctx, userID, recipientID, lat, lng); err != nil {
		return err
	}

	shareID := models.LiveLocationID(userID, recipientID)

	ls.mu.Lock()
	if stop, ok := ls.shares[shareID]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	ls.shares[shareID] = stop
	ls.mu.Unlock()

	go ls.refreshLoop(userID, recipientID, stop)

	log.Printf("🚀 Live location sharing started: %s (every %s)", shareID, ls.Interval)
	return nil
}

func (ls *LiveLocationService) refreshLoop(userID, recipientID string, stop <-chan struct{}) {
	ticker := time.NewTicker(ls.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			lat, lng, err := ls.Provider.CurrentPosition(ctx, userID)
			if err != nil {
				log.Printf("⚠️ Could not refresh position for %s: %v", userID, err)
				cancel()
				continue
			}
			if err := ls.writeLocation(ctx, userID, recipientID, lat, lng); err != nil {
				log.Printf("❌ Failed to update live location %s_%s: %v", userID, recipientID, err)
			}
			cancel()
		}
	}
}

// writeLocation overwrites the pairwise live-location document.
func (ls *LiveLocationService) writeLocation(ctx context.Context, userID, recipientID string, latitude, longitude float64) error {
	profile, err := ls.Profiles.GetUserProfile(ctx, userID)
	if err != nil {
		return err
	}

	location := models.LiveLocation{
		LocationID:  models.LiveLocationID(userID, recipientID),
		UserID:      userID,
		UserName:    profile.DisplayName,
		UserPhoto:   profile.PhotoURL,
		Latitude:    latitude,
		Longitude:   longitude,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		SharedWith:  recipientID,
		IsActive:    true,
	}

	if err := ls.Dynamo.PutItem(ctx, models.LiveLocationsTable, location); err != nil {
		return fmt.Errorf("failed to write live location: %w", err)
	}

	log.Printf("📍 Live location updated: %s", location.LocationID)
	return nil
}

// StopSharing cancels the refresh ticker and deletes the pairwise document.
// Idempotent: stopping a share that never started only issues the delete.
func (ls *LiveLocationService) StopSharing(ctx context.Context, userID, recipientID string) error {
	shareID := models.LiveLocationID(userID, recipientID)

	ls.mu.Lock()
	if stop, ok := ls.shares[shareID]; ok {
		close(stop)
		delete(ls.shares, shareID)
	}
	ls.mu.Unlock()

	key := map[string]types.AttributeValue{
		"locationId": &types.AttributeValueMemberS{Value: shareID},
	}
	if err := ls.Dynamo.DeleteItem(ctx, models.LiveLocationsTable, key); err != nil {
		return err
	}

	log.Printf("🛑 Live location sharing stopped: %s", shareID)
	return nil
}

// GetSharedLocation returns the active document senderID shares with
// recipientID, or ErrItemNotFound.
func (ls *LiveLocationService) GetSharedLocation(ctx context.Context, recipientID, senderID string) (*models.LiveLocation, error) {
	key := map[string]types.AttributeValue{
		"locationId": &types.AttributeValueMemberS{Value: models.LiveLocationID(senderID, recipientID)},
	}
	item, err := ls.Dynamo.GetItem(ctx, models.LiveLocationsTable, key)
	if err != nil {
		return nil, err
	}

	var location models.LiveLocation
	if err := attributevalue.UnmarshalMap(item, &location); err != nil {
		return nil, fmt.Errorf("failed to unmarshal live location: %w", err)
	}
	if !location.IsActive || location.SharedWith != recipientID {
		return nil, ErrItemNotFound
	}
	return &location, nil
}

// ListLiveLocations returns every active live-location document involving
// the user, whether they are the publisher or the recipient. This feeds the
// map screen, which shows both directions of a share at once.
func (ls *LiveLocationService) ListLiveLocations(ctx context.Context, userID string) ([]models.LiveLocation, error) {
	var locations []models.LiveLocation
	err := ls.Dynamo.ScanWithFilter(ctx, models.LiveLocationsTable, func(item map[string]types.AttributeValue) bool {
		if !utils.ExtractBool(item, "isActive") {
			return false
		}
		return utils.ExtractString(item, "userId") == userID || utils.ExtractString(item, "sharedWith") == userID
	}, &locations)
	if err != nil {
		return nil, fmt.Errorf("failed to list live locations: %w", err)
	}

	log.Printf("📍 Found %d live locations for %s", len(locations), userID)
	return locations, nil
}

// ActiveShares lists the directed pairs this process is currently
// refreshing for the user.
func (ls *LiveLocationService) ActiveShares(userID string) []string {
	prefix := userID + "_"

	ls.mu.Lock()
	defer ls.mu.Unlock()

	var active []string
	for id := range ls.shares {
		if len(id) > len(prefix) && id[:len(prefix)] == prefix {
			active = append(active, id)
		}
	}
	return active
}

// Close stops every refresh ticker. Documents are left in place; peers see
// them go stale rather than vanish on process shutdown.
func (ls *LiveLocationService) Close() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	for id, stop := range ls.shares {
		close(stop)
		delete(ls.shares, id)
	}
}

func (ls *LiveLocationService) addToSet(ctx context.Context, userID, attribute, value string) error {
	return ls.mutateSet(ctx, userID, "ADD", attribute, value)
}

func (ls *LiveLocationService) removeFromSet(ctx context.Context, userID, attribute, value string) error {
	return ls.mutateSet(ctx, userID, "DELETE", attribute, value)
}

func (ls *LiveLocationService) mutateSet(ctx context.Context, userID, verb, attribute, value string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	updateExpression := verb + " #attr :member"
	expressionValues := map[string]types.AttributeValue{
		":member": &types.AttributeValueMemberSS{Value: []string{value}},
	}
	expressionNames := map[string]string{"#attr": attribute}

	if _, err := ls.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		return fmt.Errorf("failed to update %s for %s: %w", attribute, userID, err)
	}
	return nil
}
