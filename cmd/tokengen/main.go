// Package main generates caller tokens for local use against the ledger API.
// Tokens are signed with the dev key unless -key is given and will NOT work in production.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "scad/internal/jwt_token"
	"scad/internal/platform/config"
	"scad/pkg/domain"
)

const (
	defaultIssuer   = "scad"     // matches JWT_ISSUER default
	defaultAudience = "scad-api" // matches JWT_AUDIENCE default
	defaultTokenTTL = 15 * time.Minute
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Caller    string            `json:"caller"`
	JTI       string            `json:"jti"`
	ExpiresIn string            `json:"expires_in"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	cmd := flag.NewFlagSet("tokengen", flag.ExitOnError)
	caller := cmd.String("caller", "", "Caller address (0x followed by 40 hex characters). Required.")
	key := cmd.String("key", config.DevSigningKey, "HMAC signing key; must match JWT_SIGNING_KEY on the server")
	issuer := cmd.String("issuer", defaultIssuer, "Token issuer")
	audience := cmd.String("audience", defaultAudience, "Token audience")
	ttl := cmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	asJSON := cmd.Bool("json", false, "Output as JSON")
	cmd.Usage = printUsage

	_ = cmd.Parse(os.Args[1:])

	addr, err := domain.ParseAddress(*caller)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -caller: %v\n\n", err)
		printUsage()
		os.Exit(1)
	}

	svc := jwttoken.NewJWTService(*key, *issuer, *audience, *ttl)
	token, jti, err := svc.GenerateToken(addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		printJSON(tokenOutput{
			Token:     token,
			Caller:    addr.String(),
			JTI:       jti,
			ExpiresIn: ttl.String(),
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Caller Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("Caller:     %s\n", addr.Checksum())
	fmt.Printf("Expires In: %s\n", ttl)
	fmt.Printf("JTI:        %s\n", jti)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/registry/me")
}

func printUsage() {
	fmt.Println(`tokengen - Generate caller tokens for the ledger API

WARNING: the default key is the dev key and will NOT work in production.

Usage:
  tokengen -caller <address> [flags]

Examples:
  tokengen -caller 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed
  tokengen -caller 0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed -ttl 1h -json`)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
