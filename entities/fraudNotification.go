package entities

import (
	"time"

	"biointake.io/application/utils"
)

type BiometryType string

const (
	FacialBiometry   BiometryType = "facial"
	DigitalBiometry  BiometryType = "digital"
	DocumentBiometry BiometryType = "documento"
)

const (
	UnknownDevice    = "unknown"
	SystemNotifier   = "biometric-system"
	DefaultOriginIP  = "127.0.0.1"
	DefaultLatitude  = -23.55052
	DefaultLongitude = -46.633308
)

type DeviceInfo struct {
	Manufacturer    string `bson:"manufacturer" json:"manufacturer"`
	Model           string `bson:"model" json:"model"`
	OperatingSystem string `bson:"operatingSystem" json:"operatingSystem"`
}

type NotificationMetadata struct {
	Latitude       float64 `bson:"latitude" json:"latitude"`
	Longitude      float64 `bson:"longitude" json:"longitude"`
	OriginIP       string  `bson:"originIP" json:"originIP"`
	ImageReference string  `bson:"imageReference,omitempty" json:"imageReference,omitempty"`
}

// FraudNotification is the record published whenever a biometric capture is
// judged fraudulent. Its ID is the transaction ID handed back to callers.
type FraudNotification struct {
	BiometryType BiometryType         `bson:"biometryType" json:"biometryType"`
	FraudType    string               `bson:"fraudType" json:"fraudType"`
	CaptureDate  time.Time            `bson:"captureDate" json:"captureDate"`
	Device       DeviceInfo           `bson:"device" json:"device"`
	Channels     []string             `bson:"channels" json:"channels"`
	NotifiedBy   string               `bson:"notifiedBy" json:"notifiedBy"`
	Metadata     NotificationMetadata `bson:"metadata" json:"metadata"`
	Processed    bool                 `bson:"processed" json:"processed"`
	DeliveredAt  *time.Time           `bson:"deliveredAt" json:"deliveredAt,omitempty"`

	ID        string    `bson:"_id" json:"transactionID"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model FraudNotification) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateUUIDString()
		}
	}
	if model.CaptureDate.IsZero() {
		model.CaptureDate = now
	}
	if model.Device.Manufacturer == "" {
		model.Device.Manufacturer = UnknownDevice
	}
	if model.Device.Model == "" {
		model.Device.Model = UnknownDevice
	}
	if model.Device.OperatingSystem == "" {
		model.Device.OperatingSystem = UnknownDevice
	}
	if len(model.Channels) == 0 {
		model.Channels = []string{"email", "sms"}
	}
	if model.NotifiedBy == "" {
		model.NotifiedBy = SystemNotifier
	}
	if model.Metadata.OriginIP == "" {
		model.Metadata.OriginIP = DefaultOriginIP
	}
	model.UpdatedAt = now
	return &model
}
