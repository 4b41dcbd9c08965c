// The seed command loads a starter FAQ corpus, default categories and an
// admin user into an empty database. Running it twice is safe: existing
// rows are left alone.
package main

import (
	"context"
	"log"
	"time"

	"eldertech/internal/models"
	"eldertech/internal/repository"
	"eldertech/pkg/auth"
	"eldertech/pkg/config"
	"eldertech/pkg/logger"
	"eldertech/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type seedFAQ struct {
	question string
	answer   string
	category string
	tags     []string
	priority int
}

var seedCategories = map[string]string{
	"health":     "Health, wellness and medication questions",
	"technology": "Help with phones, tablets and the assistant itself",
	"daily_life": "Daily routines, reminders and scheduling",
	"safety":     "Emergency contacts and personal safety",
}

var seedFAQs = []seedFAQ{
	{
		question: "How do I set a medication reminder?",
		answer:   "Say 'remind me to take my medication' followed by the time, for example 'remind me to take my medication at 8 in the morning'.",
		category: "health",
		tags:     []string{"medication", "reminders"},
		priority: 3,
	},
	{
		question: "Can the assistant call my doctor?",
		answer:   "The assistant cannot place calls itself, but it can read out your doctor's phone number and help you write down questions before an appointment.",
		category: "health",
		tags:     []string{"doctor", "appointments"},
		priority: 2,
	},
	{
		question: "How do I make the text larger on my phone?",
		answer:   "Open Settings, choose Display, then Text Size, and drag the slider to the right until the sample text is comfortable to read.",
		category: "technology",
		tags:     []string{"phone", "accessibility"},
		priority: 2,
	},
	{
		question: "What do I do if I forget my password?",
		answer:   "Use the 'Forgot password' link on the login screen. If you get stuck, ask a family member or caregiver to help you reset it.",
		category: "technology",
		tags:     []string{"password", "login"},
		priority: 1,
	},
	{
		question: "How do I add an emergency contact?",
		answer:   "Go to your profile and fill in the emergency contact field with the name and phone number of the person to reach in an emergency.",
		category: "safety",
		tags:     []string{"emergency", "contacts"},
		priority: 3,
	},
	{
		question: "Can I ask the assistant to remember my daily routine?",
		answer:   "Yes. Tell the assistant about your routine and it will use it to give better reminders and suggestions during conversations.",
		category: "daily_life",
		tags:     []string{"routine", "reminders"},
		priority: 1,
	},
}

func main() {
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

	if err := postgres.Migrate(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db, appLogger)
	faqRepo := repository.NewFAQRepository(db, appLogger)
	categoryRepo := repository.NewCategoryRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	seedAdmin(ctx, userRepo, appLogger)

	for name, description := range seedCategories {
		desc := description
		category := &models.FAQCategory{
			ID:          uuid.New(),
			Name:        name,
			Description: &desc,
			CreatedAt:   time.Now(),
		}
		if err := categoryRepo.Create(ctx, category); err != nil {
			appLogger.Warn("Skipping category (already present?)",
				zap.String("name", name),
				zap.Error(err),
			)
		}
	}

	existing, err := faqRepo.ListAll(ctx)
	if err != nil {
		appLogger.Fatal("Failed to check existing FAQs", zap.Error(err))
	}
	if len(existing) > 0 {
		appLogger.Info("FAQs already present, skipping FAQ seed", zap.Int("count", len(existing)))
		return
	}

	for _, seed := range seedFAQs {
		now := time.Now()
		faq := &models.FAQ{
			ID:        uuid.New(),
			Question:  seed.question,
			Answer:    seed.answer,
			Category:  seed.category,
			Tags:      seed.tags,
			Priority:  seed.priority,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := faqRepo.Create(ctx, faq); err != nil {
			appLogger.Fatal("Failed to seed FAQ", zap.String("question", seed.question), zap.Error(err))
		}
	}

	appLogger.Info("Database seeding completed successfully!", zap.Int("faqs", len(seedFAQs)))
}

func seedAdmin(ctx context.Context, userRepo *repository.UserRepository, appLogger *zap.Logger) {
	const adminEmail = "admin@eldertech.local"

	if existing, _ := userRepo.GetByEmail(ctx, adminEmail); existing != nil {
		appLogger.Info("Admin user already present")
		return
	}

	hashed, err := auth.HashPassword("change-me-on-first-login")
	if err != nil {
		appLogger.Fatal("Failed to hash admin password", zap.Error(err))
	}

	now := time.Now()
	admin := &models.User{
		ID:        uuid.New(),
		Username:  "admin",
		Email:     adminEmail,
		Password:  hashed,
		FullName:  "ElderTech Admin",
		IsActive:  true,
		IsAdmin:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		appLogger.Fatal("Failed to seed admin user", zap.Error(err))
	}
	appLogger.Info("Seeded admin user", zap.String("email", adminEmail))
}
