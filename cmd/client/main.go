// Command client is a small demonstration of the public client package
// against a running LightAPI server with the demo "person" entity.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iklobato/LightAPI/client"
	"github.com/iklobato/LightAPI/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	baseURL := flag.String("a", "http://localhost:8000", "server base URL")
	flag.Parse()

	ctx := context.Background()
	cli := client.New(client.Config{BaseURL: *baseURL})

	created, err := cli.Create(ctx, "person", models.Record{
		"name":           "John",
		"email":          "j@x.com",
		"email_verified": true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create person: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("created: %v\n", created)

	people, err := cli.List(ctx, "person")
	if err != nil {
		fmt.Fprintf(os.Stderr, "list people: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("people: %d\n", len(people))

	descriptor, err := cli.Options(ctx, "person")
	if err != nil {
		fmt.Fprintf(os.Stderr, "options person: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("allowed methods: %v\n", descriptor.AllowedMethods)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
