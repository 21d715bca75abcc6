package messagequeue

import (
	"biointake.io/infrastructure/message_queue/asynq"
	mq_types "biointake.io/infrastructure/message_queue/types"
)

var TaskQueue mq_types.TaskQueueBroker = &asynq.AsynqBroker{}

func StartQueue() {
	TaskQueue.Start()
}

func StopQueue() {
	TaskQueue.Shutdown()
}
