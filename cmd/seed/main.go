// Command seed fills the configured database with demo content.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"ecoblog/internal/config"
	"ecoblog/internal/database"
	"ecoblog/internal/observability"
	"ecoblog/internal/seed"
)

func main() {
	numUsers := flag.Int("users", seed.DefaultOptions.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", seed.DefaultOptions.NumPosts, "Number of posts to create")
	maxComments := flag.Int("comments", seed.DefaultOptions.MaxCommentsPerPost, "Maximum comments per post")
	likeChance := flag.Float64("like-chance", seed.DefaultOptions.LikeChance, "Probability that a user likes an item")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fakerSeed := flag.Int64("seed", time.Now().UnixNano(), "Faker seed for reproducible content")
	flag.Parse()

	log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.Logger = observability.NewLogger(cfg.Env, cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Per-row repository logs would drown the summary.
	observability.RepoLogging = false

	ctx := context.Background()
	s := seed.NewSeeder(db, *fakerSeed)

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := s.Run(ctx, seed.Options{
		NumUsers:           *numUsers,
		NumPosts:           *numPosts,
		MaxCommentsPerPost: *maxComments,
		LikeChance:         *likeChance,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d posts, %d comments, %d likes", res.Users, res.Posts, res.Comments, res.Likes)
}
