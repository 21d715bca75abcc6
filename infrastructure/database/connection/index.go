package connection

import (
	"biointake.io/infrastructure/database/connection/cache"
	"biointake.io/infrastructure/database/connection/datastore"
)

func ConnectToDatabase() {
	datastore.ConnectToDatabase()
	cache.ConnectToCache()
}

func CleanUp() {
	datastore.CleanUp()
	cache.CleanUp()
}
