package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"biointake.io/entities"
	"biointake.io/infrastructure/database/repository/cache"
	"biointake.io/infrastructure/database/repository/mongo"
	"biointake.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type keyValueCache interface {
	CreateEntry(ctx context.Context, key string, payload interface{}, ttl time.Duration) bool
	FindOneByteArray(ctx context.Context, key string) *[]byte
	DeleteOne(ctx context.Context, key string) bool
}

// BiometricStore persists analysis and fingerprint records in mongo and keeps
// each user's latest fingerprint digest in redis.
type BiometricStore struct {
	analyses     *mongo.MongoRepository[entities.AnalysisRecord]
	fingerprints *mongo.MongoRepository[entities.FingerprintRecord]
	cache        keyValueCache
	digestTTL    time.Duration
}

func NewBiometricStore(digestTTL time.Duration) *BiometricStore {
	return &BiometricStore{
		analyses:     AnalysisRecordRepo(),
		fingerprints: FingerprintRecordRepo(),
		cache:        cache.Cache,
		digestTTL:    digestTTL,
	}
}

func digestKey(userID string) string {
	return fmt.Sprintf("%s-fingerprint", userID)
}

func (s *BiometricStore) SaveAnalysisRecord(ctx context.Context, record entities.AnalysisRecord) (*entities.AnalysisRecord, error) {
	return s.analyses.CreateOne(ctx, record)
}

func (s *BiometricStore) ListAnalysisRecords(ctx context.Context, userID string, limit int64) ([]entities.AnalysisRecord, error) {
	records, err := s.analyses.FindMany(ctx, map[string]interface{}{"userID": userID}, &mongo.FindOptions{
		Sort:  bson.D{{Key: "createdAt", Value: -1}},
		Limit: &limit,
	})
	if err != nil {
		return nil, err
	}
	return *records, nil
}

func (s *BiometricStore) FindAnalysisRecord(ctx context.Context, id string) (*entities.AnalysisRecord, error) {
	return s.analyses.FindByID(ctx, id)
}

func (s *BiometricStore) SaveFingerprintDigest(ctx context.Context, record entities.FingerprintRecord) (*entities.FingerprintRecord, error) {
	saved, err := s.fingerprints.CreateOne(ctx, record)
	if err != nil {
		return nil, err
	}
	s.cacheDigest(ctx, saved)
	return saved, nil
}

// LoadFingerprintDigest returns the user's most recent registration, or nil
// when the user has none.
func (s *BiometricStore) LoadFingerprintDigest(ctx context.Context, userID string) (*entities.FingerprintRecord, error) {
	if cached := s.cache.FindOneByteArray(ctx, digestKey(userID)); cached != nil {
		var record entities.FingerprintRecord
		if err := json.Unmarshal(*cached, &record); err == nil {
			return &record, nil
		}
		s.cache.DeleteOne(ctx, digestKey(userID))
	}
	record, err := s.fingerprints.FindOneByFilter(ctx, map[string]interface{}{"userID": userID},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil || record == nil {
		return record, err
	}
	s.cacheDigest(ctx, record)
	return record, nil
}

func (s *BiometricStore) HasFingerprintReference(ctx context.Context, userID string, imageReference string) (bool, error) {
	count, err := s.fingerprints.CountDocs(ctx, map[string]interface{}{
		"userID":         userID,
		"imageReference": imageReference,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *BiometricStore) cacheDigest(ctx context.Context, record *entities.FingerprintRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		logger.Warning("could not encode fingerprint digest for caching", logger.LoggerOptions{Key: "error", Data: err})
		return
	}
	s.cache.CreateEntry(ctx, digestKey(record.UserID), payload, s.digestTTL)
}
