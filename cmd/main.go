package main

import (
	"flag"

	"jrcts-claim-tracker/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file with configuration")
	flag.Parse()

	app, err := bootstrap.New(*envFile)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	app.Run()
}
