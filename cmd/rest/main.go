package main

import (
	"context"
	"log"

	"semsim-be/internal/bootstrap"
	"semsim-be/internal/config"
	"semsim-be/internal/server"
	"semsim-be/internal/tracer"
)

func main() {
	// 1. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Load Configuration
	cfg := config.Load()

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// 4. Start Background Workers
	if err := container.ConsumerService.Consume(context.Background()); err != nil {
		log.Fatalf("Failed to start consumer workers: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
