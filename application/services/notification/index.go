package notification

import (
	"context"
	"encoding/json"

	"biointake.io/entities"
	"biointake.io/infrastructure/logger"
	queue_tasks "biointake.io/infrastructure/message_queue/tasks"
	mq_types "biointake.io/infrastructure/message_queue/types"
)

type taskQueue interface {
	Enqueue(task mq_types.QueueTask) error
}

// FraudNotifier hands fraud notifications to the task queue, which stores
// and forwards them.
type FraudNotifier struct {
	queue taskQueue
}

func NewFraudNotifier(queue taskQueue) *FraudNotifier {
	return &FraudNotifier{queue: queue}
}

// Publish fills in the notification defaults, enqueues it and returns its
// transaction ID.
func (n *FraudNotifier) Publish(ctx context.Context, event entities.FraudNotification) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	notification := event.ParseModel().(*entities.FraudNotification)
	payload, err := json.Marshal(notification)
	if err != nil {
		return "", err
	}
	err = n.queue.Enqueue(mq_types.QueueTask{
		Name:     queue_tasks.HandleFraudNotificationTaskName,
		Payload:  payload,
		Priority: mq_types.High,
		TimeOut:  30,
	})
	if err != nil {
		logger.Error("could not enqueue fraud notification", logger.LoggerOptions{
			Key:  "transactionID",
			Data: notification.ID,
		}, logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return "", err
	}
	return notification.ID, nil
}
