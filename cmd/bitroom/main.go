package main

import (
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/example/bitroom/cmd"
	"github.com/example/bitroom/internal/config"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(config.NewLogger())
	cmd.Execute()
}
