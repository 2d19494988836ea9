package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"clubhouse/internal/config"
	"clubhouse/internal/db"
	"clubhouse/internal/logging"
	"clubhouse/internal/models/dtos/requests"
	"clubhouse/internal/services"
)

// seed_admin creates the first administrator, or resets one that already exists.
func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "Administrator", "display name")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (defaults to $ADMIN_PASSWORD)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Close()

	orm, err := db.OpenORM(cfg.Database)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(orm); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	members := services.NewMemberService(orm, services.NewNotificationService(orm, nil), services.NewFormValidator(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := members.EnsureAdmin(ctx, requests.MemberRequest{
		Name:     *name,
		Email:    *email,
		Username: *username,
		Password: *password,
	})
	if err != nil {
		if msg, ok := services.UserMessage(err); ok {
			log.Fatalf("invalid admin: %s", msg)
		}
		log.Fatalf("seed admin: %v", err)
	}

	fmt.Printf("Admin %q ready (id %d)\n", user.Username, user.ID)
}
