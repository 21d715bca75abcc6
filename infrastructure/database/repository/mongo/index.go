package mongo

import (
	"context"
	"errors"

	"biointake.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrRepositoryUnavailable = errors.New("database collection is not initialised")

func (repo *MongoRepository[T]) CreateOne(ctx context.Context, payload T) (*T, error) {
	if repo.Model == nil {
		return nil, ErrRepositoryUnavailable
	}
	parsed := payload.ParseModel().(*T)
	_, err := repo.Model.InsertOne(ctx, parsed)
	if err != nil {
		logger.Error("mongo error occured while running CreateOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return parsed, nil
}

// FindOneByFilter returns nil with a nil error when nothing matches.
func (repo *MongoRepository[T]) FindOneByFilter(ctx context.Context, filter map[string]interface{}, opts ...*options.FindOneOptions) (*T, error) {
	if repo.Model == nil {
		return nil, ErrRepositoryUnavailable
	}
	var result T
	err := repo.Model.FindOne(ctx, bson.M(filter), opts...).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Error("mongo error occured while running FindOneByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "filter",
			Data: filter,
		})
		return nil, err
	}
	return &result, nil
}

func (repo *MongoRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return repo.FindOneByFilter(ctx, map[string]interface{}{"_id": id})
}

func (repo *MongoRepository[T]) FindMany(ctx context.Context, filter map[string]interface{}, opts *FindOptions) (*[]T, error) {
	if repo.Model == nil {
		return nil, ErrRepositoryUnavailable
	}
	findOpts := options.Find()
	if opts != nil {
		if opts.Projection != nil {
			findOpts.SetProjection(opts.Projection)
		}
		if opts.Sort != nil {
			findOpts.SetSort(opts.Sort)
		}
		if opts.Skip != nil {
			findOpts.SetSkip(*opts.Skip)
		}
		if opts.Limit != nil {
			findOpts.SetLimit(*opts.Limit)
		}
	}
	cursor, err := repo.Model.Find(ctx, bson.M(filter), findOpts)
	if err != nil {
		logger.Error("mongo error occured while running FindMany", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "filter",
			Data: filter,
		})
		return nil, err
	}
	result := []T{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (repo *MongoRepository[T]) CountDocs(ctx context.Context, filter map[string]interface{}) (int64, error) {
	if repo.Model == nil {
		return 0, ErrRepositoryUnavailable
	}
	return repo.Model.CountDocuments(ctx, bson.M(filter))
}

func (repo *MongoRepository[T]) UpdatePartialByID(ctx context.Context, id string, payload map[string]interface{}) (int64, error) {
	if repo.Model == nil {
		return 0, ErrRepositoryUnavailable
	}
	result, err := repo.Model.UpdateByID(ctx, id, bson.M{"$set": payload})
	if err != nil {
		logger.Error("mongo error occured while running UpdatePartialByID", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "id",
			Data: id,
		})
		return 0, err
	}
	return result.ModifiedCount, nil
}
