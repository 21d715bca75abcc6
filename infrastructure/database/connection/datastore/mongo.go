package datastore

import (
	"context"
	"time"

	"biointake.io/infrastructure/env"
	"biointake.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	AnalysisRecordModel    *mongo.Collection
	FingerprintRecordModel *mongo.Collection
	FraudNotificationModel *mongo.Collection

	client *mongo.Client
)

func ConnectToDatabase() {
	cfg := env.Get()
	if cfg.DBURL == "" {
		logger.Error("mongo url missing")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(cfg.DBURL)
	clientOpts.SetMinPoolSize(5)
	clientOpts.SetMaxPoolSize(10)

	c, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Warning("an error occured while starting the database", logger.LoggerOptions{Key: "error", Data: err})
		return
	}
	client = c

	db := client.Database(cfg.DBName)
	setUpIndexes(ctx, db)

	logger.Info("connected to mongodb successfully")
}

// Set up the indexes for the database
func setUpIndexes(ctx context.Context, db *mongo.Database) {
	AnalysisRecordModel = db.Collection("AnalysisRecords")
	AnalysisRecordModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "userID", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index(),
	}})

	FingerprintRecordModel = db.Collection("FingerprintRecords")
	FingerprintRecordModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "userID", Value: 1}},
		Options: options.Index(),
	}, {
		Keys:    bson.D{{Key: "imageReference", Value: 1}},
		Options: options.Index(),
	}})

	FraudNotificationModel = db.Collection("FraudNotifications")
	FraudNotificationModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "processed", Value: 1}},
		Options: options.Index(),
	}})

	logger.Info("mongodb indexes set up successfully")
}

func CleanUp() {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Warning("error disconnecting from mongodb", logger.LoggerOptions{Key: "error", Data: err})
	}
}
