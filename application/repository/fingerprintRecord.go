package repository

import (
	"sync"

	"biointake.io/entities"
	"biointake.io/infrastructure/database/connection/datastore"
	"biointake.io/infrastructure/database/repository/mongo"
)

var fingerprintRecordOnce = sync.Once{}

var fingerprintRecordRepository mongo.MongoRepository[entities.FingerprintRecord]

func FingerprintRecordRepo() *mongo.MongoRepository[entities.FingerprintRecord] {
	fingerprintRecordOnce.Do(func() {
		fingerprintRecordRepository = mongo.MongoRepository[entities.FingerprintRecord]{Model: datastore.FingerprintRecordModel}
	})
	return &fingerprintRecordRepository
}
