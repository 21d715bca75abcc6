package repository

import (
	"sync"

	"biointake.io/entities"
	"biointake.io/infrastructure/database/connection/datastore"
	"biointake.io/infrastructure/database/repository/mongo"
)

var analysisRecordOnce = sync.Once{}

var analysisRecordRepository mongo.MongoRepository[entities.AnalysisRecord]

func AnalysisRecordRepo() *mongo.MongoRepository[entities.AnalysisRecord] {
	analysisRecordOnce.Do(func() {
		analysisRecordRepository = mongo.MongoRepository[entities.AnalysisRecord]{Model: datastore.AnalysisRecordModel}
	})
	return &analysisRecordRepository
}
