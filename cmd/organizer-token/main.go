// Package main issues organizer tokens for the event management routes.
//
//	ORGANIZER_JWT_SECRET=... go run ./cmd/organizer-token -organizer "Go Berlin"
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/devevent/backend/config"
	"github.com/devevent/backend/internal/auth"
)

func main() {
	organizer := flag.String("organizer", "", "organizer name carried in the token")
	role := flag.String("role", auth.RoleOrganizer, "organizer or admin")
	ttl := flag.Duration("ttl", auth.DefaultTTL, "token lifetime")
	flag.Parse()

	log := zap.NewExample()
	defer log.Sync()

	name := strings.TrimSpace(*organizer)
	if name == "" {
		log.Fatal("organizer is required")
	}
	if !auth.ValidRole(*role) {
		log.Fatal("unknown role", zap.String("role", *role))
	}
	if *ttl <= 0 {
		log.Fatal("ttl must be positive", zap.Duration("ttl", *ttl))
	}

	cfg, err := config.LoadAuth()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	token, err := auth.NewJWTService(cfg.OrganizerSecret, *ttl).Generate(name, *role)
	if err != nil {
		log.Fatal("sign token", zap.Error(err))
	}
	fmt.Fprintln(os.Stdout, token)
}
