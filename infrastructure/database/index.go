package database

import "biointake.io/infrastructure/database/connection"

func SetUpDatabase() {
	connection.ConnectToDatabase()
}

func CleanUpDatabase() {
	connection.CleanUp()
}

type BaseModel interface {
	ParseModel() any
}
