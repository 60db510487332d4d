package main

import (
	"context"
	"log"

	"github.com/paweldywan/devops-test/internal/cloud"
	"github.com/paweldywan/devops-test/internal/config"
	"github.com/paweldywan/devops-test/internal/db"
	"github.com/paweldywan/devops-test/internal/engine"
	"github.com/paweldywan/devops-test/internal/handler"
	"github.com/paweldywan/devops-test/internal/observability"
	"github.com/paweldywan/devops-test/internal/teardown"
	"github.com/paweldywan/devops-test/internal/verify"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var queries *db.Queries
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer pool.Close()
		if err := db.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("failed to ensure schema: %v", err)
		}
		queries = db.New(pool)
	} else {
		log.Println("DATABASE_URL not set; run history disabled")
	}

	api, err := cloud.NewAwsAPI(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatalf("failed to initialise cloud client: %v", err)
	}

	prov := engine.NewProvisioner(api, queries, teardown.NewManager(), verify.NewChecker())
	metrics := observability.NewMetrics()

	r := handler.SetupRouter(
		handler.NewProvisionHandler(prov, queries, metrics, cfg.RetentionDays),
		metrics,
		cfg.CORSAllowOrigin,
	)

	log.Printf("Monitoring provisioner starting on :%s (region %s)", cfg.ServerPort, cfg.AWSRegion)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
