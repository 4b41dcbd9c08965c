// The faq-clustering command runs the nightly FAQ organization job: it
// annotates the FAQ corpus through the AI gateway, groups it by category,
// flags coverage and priority gaps and writes a timestamped JSON report.
//
// Any unrecoverable error aborts the run with a non-zero exit and no report.
package main

import (
	"context"
	"flag"
	"log"

	"eldertech/internal/clustering"
	"eldertech/internal/repository"
	"eldertech/internal/service"
	"eldertech/pkg/config"
	"eldertech/pkg/logger"
	"eldertech/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	outputDir := flag.String("output-dir", ".", "directory for the clustering report")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	faqRepo := repository.NewFAQRepository(db, appLogger)
	aiService := service.NewOpenAIService(&cfg.OpenAI, appLogger)

	clusterer := clustering.New(faqRepo, aiService, appLogger)

	report, err := clusterer.Run(ctx)
	if err != nil {
		appLogger.Fatal("FAQ clustering failed", zap.Error(err))
	}

	path, err := report.Save(*outputDir)
	if err != nil {
		appLogger.Fatal("Failed to save clustering report", zap.Error(err))
	}

	appLogger.Info("FAQ clustering completed",
		zap.String("report", path),
		zap.Int("total_faqs", report.Summary.TotalFAQs),
		zap.Int("total_clusters", report.Summary.TotalClusters),
		zap.Int("total_gaps", report.Summary.TotalGaps),
	)
}
