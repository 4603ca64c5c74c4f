package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/bankfold/bankfold/internal/commands"
)

func main() {
	// .env may set LOGGER_LEVEL; absence is fine.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
