// Healthcheck is a tool for checking that a CoMapeo Cloud server is up.
package main

import (
	"log"
	"os"

	"comapeo-cli/comapeo"
	"github.com/joho/godotenv"
)

const UserAgent = "comapeo-cli-healthcheck/0.2"

func main() {
	_ = godotenv.Load()
	serverURL := os.Getenv("COMAPEO_SERVER_URL")
	if serverURL == "" {
		log.Fatal("COMAPEO_SERVER_URL environment variable not set")
	}
	client := comapeo.NewClient(serverURL, os.Getenv("COMAPEO_ACCESS_TOKEN"), UserAgent)
	if err := client.Healthcheck(); err != nil {
		log.Fatalf("unhealthy: %v", err)
	}
	log.Println("ok:", serverURL)
}
