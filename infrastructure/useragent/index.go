package useragent

import (
	"strings"

	"github.com/mileusna/useragent"
)

// Device is what a User-Agent header reveals about the capturing device.
// Fields the header does not carry are left blank.
type Device struct {
	Manufacturer    string
	Model           string
	OperatingSystem string
	Bot             bool
}

var manufacturers = map[string]string{
	"iOS":           "Apple",
	"macOS":         "Apple",
	"Windows":       "Microsoft",
	"Windows Phone": "Microsoft",
	"ChromeOS":      "Google",
}

func ParseDevice(userAgent string) Device {
	if strings.TrimSpace(userAgent) == "" {
		return Device{}
	}
	parsed := useragent.Parse(userAgent)
	device := Device{
		Manufacturer: manufacturers[parsed.OS],
		Model:        parsed.Device,
		Bot:          parsed.Bot,
	}
	if parsed.OS != "" {
		device.OperatingSystem = strings.TrimSpace(parsed.OS + " " + parsed.OSVersion)
	}
	if device.Model == "" && parsed.Name != "" {
		device.Model = parsed.Name
	}
	return device
}
