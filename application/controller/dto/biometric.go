package dto

import (
	"time"

	"biointake.io/entities"
	"biointake.io/infrastructure/biometric/types"
)

// ImageRequest names the image to analyse: a public http(s) URL or a base64
// payload, optionally as a data URL. Exactly one must be set.
type ImageRequest struct {
	ImageURL    string `json:"imageUrl" validate:"image_source=ImageBase64,omitempty,http_url,max=2048"`
	ImageBase64 string `json:"imageBase64"`
}

type DeviceDTO struct {
	Manufacturer    string `json:"manufacturer" validate:"max=100"`
	Model           string `json:"model" validate:"max=100"`
	OperatingSystem string `json:"operatingSystem" validate:"max=100"`
}

type LocationDTO struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	OriginIP  string   `json:"originIp" validate:"omitempty,ip"`
}

// BiometryRequest is a capture submitted for facial or digital biometry.
type BiometryRequest struct {
	ImageRequest
	Device   *DeviceDTO   `json:"device" validate:"omitempty"`
	Location *LocationDTO `json:"location" validate:"omitempty"`
}

type AnalysisResponse struct {
	AnalysisID    string                 `json:"analysisId"`
	Description   string                 `json:"description"`
	ContainsFaces bool                   `json:"containsFaces"`
	FaceCount     int                    `json:"faceCount"`
	Faces         []entities.FaceSummary `json:"faces"`
	ImageType     string                 `json:"imageType"`
	ImageWidth    int                    `json:"imageWidth"`
	ImageHeight   int                    `json:"imageHeight"`
	IsFraud       bool                   `json:"isFraud"`
	FraudReason   string                 `json:"fraudReason,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
}

type DescriptionResponse struct {
	Description string `json:"description"`
	ImageType   string `json:"imageType"`
	ImageWidth  int    `json:"imageWidth"`
	ImageHeight int    `json:"imageHeight"`
	FaceCount   int    `json:"faceCount"`
}

type SelfieResponse struct {
	AnalysisID  string                   `json:"analysisId"`
	Status      types.VerificationStatus `json:"status"`
	Selfie      types.SelfieDecision     `json:"selfie"`
	Liveness    types.LivenessVerdict    `json:"liveness"`
	Forensic    types.ForensicVerdict    `json:"forensic"`
	Description string                   `json:"description"`
}

// BiometryResponse reports a facial or digital biometry check. NotificationID
// is set when a fraud notification was published.
type BiometryResponse struct {
	TransactionID  string `json:"transactionId"`
	Valid          bool   `json:"valid"`
	Message        string `json:"message"`
	Detail         string `json:"detail"`
	FraudReason    string `json:"fraudReason,omitempty"`
	NotificationID string `json:"notificationId,omitempty"`
}

type FingerprintRegistrationResponse struct {
	Registered     bool                        `json:"registered"`
	ID             string                      `json:"id,omitempty"`
	ImageReference string                      `json:"imageReference"`
	Hash           string                      `json:"hash,omitempty"`
	RegisteredAt   *time.Time                  `json:"registeredAt,omitempty"`
	Validation     types.FingerprintValidation `json:"validation"`
}

type FingerprintVerificationResponse struct {
	Match          bool                         `json:"match"`
	IsFraud        bool                         `json:"isFraud"`
	Message        string                       `json:"message"`
	KnownReference bool                         `json:"knownReference"`
	Validation     *types.FingerprintValidation `json:"validation,omitempty"`
}
