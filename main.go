package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/pebble-tech/cursor-my-hackathon/cmd/app"
)

func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
