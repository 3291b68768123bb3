package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/go-account-service/internal/infrastructure/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	username := flag.String("username", "demouser", "username to seed")
	email := flag.String("email", "demo@example.com", "email to seed")
	fullName := flag.String("name", "Demo User", "full name")
	password := flag.String("password", "password123", "plaintext password")
	flag.Parse()

	ctx := context.Background()

	var repo repository.UserRepository
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		repo = pginfra.NewUserRepository(pool)
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		mrepo := mongodb.NewUserRepository(client.Database(cfg.MongoDatabase))
		if err := mongodb.EnsureIndexes(ctx, mrepo.Coll()); err != nil {
			log.Fatalf("failed to ensure indexes: %v", err)
		}
		repo = mrepo
	default:
		log.Fatalf("seeding is not supported for STORE_DRIVER=%s", cfg.StoreDriver)
	}

	u, err := entity.NewUser(*username, *email, *fullName, *password)
	if err != nil {
		log.Fatalf("failed to build user: %v", err)
	}
	if err := repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fmt.Printf("user already exists: username=%s email=%s (%v)\n", u.Username, u.Email, err)
			return
		}
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=%s email=%s password=%s\n", u.ID, u.Username, u.Email, *password)
}
