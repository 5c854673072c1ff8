// Dump is a tool for testing downloads of CoMapeo observations.
package main

import (
	"log"
	"os"

	"comapeo-cli/comapeo"
	"github.com/joho/godotenv"
	"github.com/kr/pretty"
)

const UserAgent = "comapeo-cli-dump/0.2"

func main() {
	_ = godotenv.Load()
	if len(os.Args) != 2 {
		log.Fatal("usage: dump PROJECT_ID")
	}
	serverURL := os.Getenv("COMAPEO_SERVER_URL")
	if serverURL == "" {
		log.Fatal("COMAPEO_SERVER_URL environment variable not set")
	}
	client := comapeo.NewClient(serverURL, os.Getenv("COMAPEO_ACCESS_TOKEN"), UserAgent)

	observations, err := client.Observations(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	log.Println("downloaded", len(observations), "observations")
	for _, o := range observations {
		pretty.Println(o)
	}
}
