package main

import (
	"context"
	"log"
	"time"

	"talanch-backoffice/config"
	httpapi "talanch-backoffice/internal/api/http"
	"talanch-backoffice/internal/cache"
	"talanch-backoffice/internal/service"
	"talanch-backoffice/internal/session"
	"talanch-backoffice/internal/storage"
	"talanch-backoffice/internal/upstream"
)

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	audit := storage.NewPostgresRepository(db)
	if err := audit.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	redisClient := config.MustInitRedis()
	defer redisClient.Close()

	kafkaWriter := config.NewKafkaWriter("backoffice.mutations")
	defer kafkaWriter.Close()
	events := storage.NewKafkaPublisher(kafkaWriter)

	client := upstream.NewClient(config.UpstreamBaseURL(), nil)

	dishCache := cache.NewDishCache(client)
	menuCache := cache.NewMenuCache(client)
	orderCache := cache.NewOrderCache()

	dishSvc := service.NewDishService(client, dishCache, audit, events)
	menuSvc := service.NewMenuService(client, menuCache, audit, events, config.PublicURL())
	orderSvc := service.NewOrderService(client, orderCache, audit, events)

	sessions := session.NewManager(storage.NewRedisStore(redisClient))

	// Warm the caches up front so the first page load does not pay the
	// fetch. Failure here is not fatal; the caches fill on demand.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := dishSvc.Refresh(ctx); err != nil {
		log.Printf("[backoffice] initial dish fetch failed: %v", err)
	}
	if err := menuSvc.Refresh(ctx); err != nil {
		log.Printf("[backoffice] initial menu fetch failed: %v", err)
	}
	cancel()

	handler := httpapi.NewHandler(dishSvc, menuSvc, orderSvc, sessions, audit)
	httpapi.StartServer(config.ListenAddr(), httpapi.NewRouter(handler))
}
