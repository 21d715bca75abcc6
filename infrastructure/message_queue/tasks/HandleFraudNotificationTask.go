package queue_tasks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"biointake.io/application/repository"
	"biointake.io/entities"
	"biointake.io/infrastructure/env"
	"biointake.io/infrastructure/logger"
	mq_types "biointake.io/infrastructure/message_queue/types"
	"biointake.io/infrastructure/webhook"
	"github.com/hibiken/asynq"
)

var HandleFraudNotificationTaskName mq_types.Queues = "fraud_notification"

type notificationStore interface {
	FindByID(ctx context.Context, id string) (*entities.FraudNotification, error)
	CreateOne(ctx context.Context, payload entities.FraudNotification) (*entities.FraudNotification, error)
	UpdatePartialByID(ctx context.Context, id string, payload map[string]interface{}) (int64, error)
}

type eventPoster interface {
	Post(ctx context.Context, url string, payload any) error
}

var (
	webhookOnce   sync.Once
	webhookClient *webhook.Client
)

func newFraudWebhook(cfg *env.Config) *webhook.Client {
	return webhook.NewClient(cfg.FraudWebhookTimeout, cfg.FraudWebhookMaxRetries)
}

func fraudWebhook() *webhook.Client {
	webhookOnce.Do(func() {
		webhookClient = newFraudWebhook(env.Get())
	})
	return webhookClient
}

func HandleFraudNotificationTask(ctx context.Context, t *asynq.Task) error {
	var payload entities.FraudNotification
	err := json.Unmarshal(t.Payload(), &payload)
	if err != nil {
		logger.Error("an error occured while unmarshalling fraud notification payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	return deliverFraudNotification(ctx, repository.FraudNotificationRepo(), fraudWebhook(), env.Get().FraudWebhookURL, payload)
}

// deliverFraudNotification stores the notification once and forwards it to
// the webhook. A failed post is returned so the queue retries it; the stored
// record is reused on the retry.
func deliverFraudNotification(ctx context.Context, store notificationStore, poster eventPoster, url string, payload entities.FraudNotification) error {
	notification, err := store.FindByID(ctx, payload.ID)
	if err != nil {
		return err
	}
	if notification == nil {
		notification, err = store.CreateOne(ctx, payload)
		if err != nil {
			return err
		}
		logger.Warning("fraud detected", logger.LoggerOptions{
			Key:  "transactionID",
			Data: notification.ID,
		}, logger.LoggerOptions{
			Key:  "biometryType",
			Data: notification.BiometryType,
		}, logger.LoggerOptions{
			Key:  "fraudType",
			Data: notification.FraudType,
		})
	}
	if notification.Processed || url == "" {
		return nil
	}

	if err := poster.Post(ctx, url, notification); err != nil {
		logger.Error("failed to deliver fraud notification", logger.LoggerOptions{
			Key:  "transactionID",
			Data: notification.ID,
		}, logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	_, err = store.UpdatePartialByID(ctx, notification.ID, map[string]interface{}{
		"processed":   true,
		"deliveredAt": time.Now(),
	})
	return err
}
