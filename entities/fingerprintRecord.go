package entities

import (
	"time"

	"biointake.io/application/utils"
)

// FingerprintRecord stores a user's registered fingerprint digest.
type FingerprintRecord struct {
	UserID         string    `bson:"userID" json:"userID"`
	ImageReference string    `bson:"imageReference" json:"imageReference"`
	Hash           string    `bson:"hash" json:"hash"`
	Features       []float64 `bson:"features" json:"features"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"registeredAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model FingerprintRecord) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateUULDString()
		}
	}
	model.UpdatedAt = now
	return &model
}
