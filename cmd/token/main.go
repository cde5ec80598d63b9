// Command token signs a bearer token for calling the gRPC services, e.g.
//
//	go run ./cmd/token -user 1 -role cashier
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fekuna/omnipos-retail-service/config"
	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/joho/godotenv"
)

func main() {
	userID := flag.Int64("user", 0, "acting user id")
	role := flag.String("role", "staff", "role claim")
	ttl := flag.Duration("ttl", auth.DefaultTokenTTL, "token lifetime")
	flag.Parse()

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.LoadEnv()

	token, err := auth.GenerateToken(cfg.JWT.SecretKey, *userID, *role, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
