package asynq

import (
	"errors"
	"sync"
	"time"

	"biointake.io/infrastructure/env"
	"biointake.io/infrastructure/logger"
	queue_tasks "biointake.io/infrastructure/message_queue/tasks"
	mq_types "biointake.io/infrastructure/message_queue/types"
	"github.com/hibiken/asynq"
)

type AsynqBroker struct {
	Client *asynq.Client

	clientOnce sync.Once
	mu         sync.Mutex
	server     *asynq.Server
}

func redisConnOpt() asynq.RedisClientOpt {
	cfg := env.Get()
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
}

func (aq *AsynqBroker) client() *asynq.Client {
	aq.clientOnce.Do(func() {
		if aq.Client == nil {
			aq.Client = asynq.NewClient(redisConnOpt())
		}
	})
	return aq.Client
}

func (aq *AsynqBroker) Start() {
	aq.client()

	srv := asynq.NewServer(
		redisConnOpt(),
		asynq.Config{
			Concurrency: 50,
			Queues: map[string]int{
				string(mq_types.High):   7,
				string(mq_types.Medium): 2,
				string(mq_types.Low):    1,
			},
		},
	)
	aq.mu.Lock()
	aq.server = srv
	aq.mu.Unlock()

	mux := asynq.NewServeMux()
	mux.HandleFunc(string(queue_tasks.HandleFraudNotificationTaskName), queue_tasks.HandleFraudNotificationTask)

	if err := srv.Run(mux); err != nil {
		logger.Error("asynq server stopped", logger.LoggerOptions{Key: "error", Data: err})
	}
}

func (aq *AsynqBroker) Enqueue(task mq_types.QueueTask) error {
	client := aq.client()
	if client == nil {
		return errors.New("task queue client unavailable")
	}
	if task.TimeOut == 0 {
		task.TimeOut = 60
	}
	if task.MaxRetry == 0 {
		task.MaxRetry = 10
	}
	if task.Priority == "" {
		task.Priority = mq_types.Medium
	}
	_, err := client.Enqueue(asynq.NewTask(string(task.Name), task.Payload),
		asynq.ProcessIn(task.ProcessIn*time.Second),
		asynq.MaxRetry(task.MaxRetry),
		asynq.Timeout(task.TimeOut*time.Second),
		asynq.Queue(string(task.Priority)))
	return err
}

func (aq *AsynqBroker) Shutdown() {
	aq.mu.Lock()
	srv := aq.server
	aq.mu.Unlock()
	if srv != nil {
		srv.Shutdown()
	}
	if aq.Client != nil {
		aq.Client.Close()
	}
}
