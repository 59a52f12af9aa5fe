package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/tokens"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prints a call token for local testing against the HTTP API.
//
//	CALL_IDENTITY=alice CALL_CLOCK=1000 go run ./cmd/calltoken
type callTokenConfig struct {
	JWTSecret []byte        `envconfig:"JWT_SECRET" required:"true"`
	Identity  string        `envconfig:"CALL_IDENTITY" required:"true"`
	Clock     int64         `envconfig:"CALL_CLOCK" default:"0"`
	Expiry    time.Duration `envconfig:"CALL_TOKEN_EXPIRY" default:"1h"`
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load .env file")
	}
	c := &callTokenConfig{}
	if err := envconfig.Process("", c); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading environment variables: %v\n", err)
		os.Exit(1)
	}

	token, err := tokens.GenerateCallToken(c.JWTSecret, c.Identity, c.Clock, c.Expiry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating call token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
