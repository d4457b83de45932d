package models

// LiveLocation is the continuously refreshed position document one user
// shares with exactly one recipient. Keyed by "{senderId}_{recipientId}";
// existence with isActive=true is the only liveness signal.
type LiveLocation struct {
	LocationID  string  `dynamodbav:"locationId" json:"locationId"`
	UserID      string  `dynamodbav:"userId" json:"userId"`
	UserName    string  `dynamodbav:"userName,omitempty" json:"userName,omitempty"`
	UserPhoto   string  `dynamodbav:"userPhoto,omitempty" json:"userPhoto,omitempty"`
	Latitude    float64 `dynamodbav:"latitude" json:"latitude"`
	Longitude   float64 `dynamodbav:"longitude" json:"longitude"`
	LastUpdated string  `dynamodbav:"lastUpdated" json:"lastUpdated"`
	SharedWith  string  `dynamodbav:"sharedWith" json:"sharedWith"`
	IsActive    bool    `dynamodbav:"isActive" json:"isActive"`
}

// LiveLocationID builds the pairwise document key for a directed share.
func LiveLocationID(senderID, recipientID string) string {
	return senderID + "_" + recipientID
}

// LiveLocationsTable is the DynamoDB table name for live location documents
const LiveLocationsTable = "LiveLocations"
