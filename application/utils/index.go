package utils

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

func GenerateUULDString() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
}

func GenerateUUIDString() string {
	return uuid.NewString()
}

// Round rounds half away from zero to the given number of decimal places.
func Round(value float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(value*pow) / pow
}
