package repository

import (
	"sync"

	"biointake.io/entities"
	"biointake.io/infrastructure/database/connection/datastore"
	"biointake.io/infrastructure/database/repository/mongo"
)

var fraudNotificationOnce = sync.Once{}

var fraudNotificationRepository mongo.MongoRepository[entities.FraudNotification]

func FraudNotificationRepo() *mongo.MongoRepository[entities.FraudNotification] {
	fraudNotificationOnce.Do(func() {
		fraudNotificationRepository = mongo.MongoRepository[entities.FraudNotification]{Model: datastore.FraudNotificationModel}
	})
	return &fraudNotificationRepository
}
