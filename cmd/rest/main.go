package main

import (
	"context"
	"log"

	"ai-docsearch-be/internal/bootstrap"
	"ai-docsearch-be/internal/config"
	"ai-docsearch-be/internal/server"
	"ai-docsearch-be/internal/tracer"
	"ai-docsearch-be/pkg/database"
)

func main() {
	// 1. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Load Configuration
	cfg := config.Load()

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Start Background Services
	if err := container.AuditConsumerService.Consume(context.Background()); err != nil {
		log.Printf("Background Audit Consumer Error: %v", err)
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
