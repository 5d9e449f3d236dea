// Command reporttoken prints a signed token for viewing the download
// statistics when REPORT_JWT_SECRET is set.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/basit/download-tracker/auth"
)

func main() {
	subject := flag.String("subject", "", "who the token is issued to")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("REPORT_JWT_SECRET")
	if secret == "" {
		log.Fatal("❌ REPORT_JWT_SECRET is not set")
	}
	if *subject == "" {
		log.Fatal("❌ -subject is required")
	}

	token, err := auth.GenerateToken(*subject, []byte(secret), *ttl)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fmt.Println(token)
}
