package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID                  string   `dynamodbav:"userId" json:"userId"`
	Email                   string   `dynamodbav:"email,omitempty" json:"email,omitempty"`
	DisplayName             string   `dynamodbav:"displayName,omitempty" json:"displayName,omitempty"`
	PhotoURL                string   `dynamodbav:"photoURL,omitempty" json:"photoURL,omitempty"`
	Pin                     string   `dynamodbav:"pin,omitempty" json:"pin,omitempty"`
	Bio                     string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Latitude                float64  `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude               float64  `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`
	LocationSharingRequests []string `dynamodbav:"locationSharingRequests,stringset,omitempty" json:"locationSharingRequests,omitempty"`
	LocationSharingWith     []string `dynamodbav:"locationSharingWith,stringset,omitempty" json:"locationSharingWith,omitempty"`
	CreatedAt               string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt               string   `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`

	// Distance is computed for nearby queries, never stored
	Distance float64 `dynamodbav:"-" json:"distance,omitempty"`
}

// SharesLocationWith reports whether the profile grants live-location
// visibility to the given user.
func (p *UserProfile) SharesLocationWith(userID string) bool {
	for _, uid := range p.LocationSharingWith {
		if uid == userID {
			return true
		}
	}
	return false
}

// HasSharingRequestFrom reports whether userID already asked this profile
// for location-sharing permission.
func (p *UserProfile) HasSharingRequestFrom(userID string) bool {
	for _, uid := range p.LocationSharingRequests {
		if uid == userID {
			return true
		}
	}
	return false
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

// UserPinIndex is the GSI used for PIN lookups
const UserPinIndex = "pin-index"
