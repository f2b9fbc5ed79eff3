package main

import (
	"fmt"
	"os"

	lightapi "github.com/iklobato/LightAPI"
	"github.com/iklobato/LightAPI/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	app, err := lightapi.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating app: %v\n", err)
		os.Exit(1)
	}

	person := models.NewEntity("person",
		models.Field{Name: "name", Type: models.Text},
		models.Field{Name: "email", Type: models.Text},
		models.Field{Name: "email_verified", Type: models.Boolean},
	)

	if err = app.Register(models.Endpoint{Entity: person}); err != nil {
		fmt.Fprintf(os.Stderr, "error registering person endpoint: %v\n", err)
		os.Exit(1)
	}

	if err = app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running app: %v\n", err)
		os.Exit(1)
	}
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
