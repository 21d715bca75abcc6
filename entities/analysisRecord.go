package entities

import (
	"time"

	"biointake.io/application/utils"
)

type AnalysisKind string

const (
	FraudAnalysis  AnalysisKind = "fraud"
	SelfieAnalysis AnalysisKind = "selfie"
	FacialAnalysis AnalysisKind = "facial"
)

type FaceSummary struct {
	X         int  `bson:"x" json:"x"`
	Y         int  `bson:"y" json:"y"`
	Width     int  `bson:"width" json:"width"`
	Height    int  `bson:"height" json:"height"`
	HasEyes   bool `bson:"hasEyes" json:"hasEyes"`
	IsFrontal bool `bson:"isFrontal" json:"isFrontal"`
}

// AnalysisRecord is the stored outcome of one image analysis.
type AnalysisRecord struct {
	UserID             string        `bson:"userID" json:"userID"`
	ImageReference     string        `bson:"imageReference" json:"imageReference"`
	Kind               AnalysisKind  `bson:"kind" json:"kind"`
	Description        string        `bson:"description" json:"description"`
	ImageType          string        `bson:"imageType" json:"imageType"`
	ImageWidth         int           `bson:"imageWidth" json:"imageWidth"`
	ImageHeight        int           `bson:"imageHeight" json:"imageHeight"`
	FaceCount          int           `bson:"faceCount" json:"faceCount"`
	Faces              []FaceSummary `bson:"faces" json:"faces"`
	IsFraud            bool          `bson:"isFraud" json:"isFraud"`
	FraudReason        string        `bson:"fraudReason,omitempty" json:"fraudReason,omitempty"`
	VerificationStatus string        `bson:"verificationStatus,omitempty" json:"verificationStatus,omitempty"`
	NotificationID     string        `bson:"notificationID,omitempty" json:"notificationID,omitempty"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model AnalysisRecord) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateUULDString()
		}
	}
	if model.Faces == nil {
		model.Faces = []FaceSummary{}
	}
	model.UpdatedAt = now
	return &model
}
