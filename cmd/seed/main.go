package main

import (
	"context"
	"log"
	"os"

	"mining_webapp/internal/db"
	"mining_webapp/internal/domain"
	"mining_webapp/internal/repository"
)

// Seeds the default rule set, starter tasks and launch announcements into a
// freshly migrated database. Safe to run once; reruns duplicate tasks/news.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()

	configs := repository.NewConfigRepository(pool)
	if err := configs.Replace(ctx, domain.DefaultAppConfig()); err != nil {
		log.Fatalf("seed config failed: %v", err)
	}
	log.Println("seeded default app config")

	tasks := repository.NewTaskRepository(pool)
	for _, t := range []*domain.Task{
		{
			Title:         "Subscribe to YouTube",
			Description:   "Watch our latest video and subscribe.",
			Link:          "https://youtube.com",
			RewardCoin:    100,
			RewardDiamond: 5,
			IsActive:      true,
		},
		{
			Title:       "Follow on X",
			Description: "Join our X community for updates.",
			Link:        "https://x.com",
			RewardUSD:   0.5,
			RewardSpeed: 0.05,
			IsActive:    true,
		},
	} {
		if err := tasks.Create(ctx, t); err != nil {
			log.Fatalf("seed task %q failed: %v", t.Title, err)
		}
		log.Printf("seeded task id=%d title=%q\n", t.ID, t.Title)
	}

	news := repository.NewNewsRepository(pool)
	for _, n := range []*domain.News{
		{
			Title:   "Major Listing Update",
			Content: "We are excited to announce our upcoming listing on major exchanges! Stay tuned for more details.",
		},
		{
			Title:   "Referral Contest",
			Content: "Invite your friends and win up to 1000 USD in TON. Top 10 referrers win extra rewards.",
		},
	} {
		if err := news.Create(ctx, n); err != nil {
			log.Fatalf("seed news %q failed: %v", n.Title, err)
		}
		log.Printf("seeded news id=%d title=%q\n", n.ID, n.Title)
	}
}
