package infrastructure

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"biointake.io/infrastructure/logger"
	messagequeue "biointake.io/infrastructure/message_queue"
)

type serverInterface interface {
	Start(ctx context.Context)
}

func StartServer() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger.InitializeLogger()

	var server serverInterface = &ginServer{}
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		messagequeue.StartQueue()
	}()

	go func() {
		defer wg.Done()
		server.Start(ctx)
		messagequeue.StopQueue()
	}()

	wg.Wait()
}
