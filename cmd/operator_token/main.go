// Command operator_token mints a bearer token for a back-office operator,
// signed with the JWT_SECRET the server is configured with.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/refinance_review_app/internal/platform/config"
	"github.com/SscSPs/refinance_review_app/internal/utils"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	operatorID := flag.String("operator", "", "operator ID recorded as the actor of transitions")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := utils.GenerateOperatorToken(*operatorID, cfg.JWTSecret, *ttl)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}
