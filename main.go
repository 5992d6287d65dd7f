package main

import (
	"github.com/disserto/disserto-api/app"
	"github.com/disserto/disserto-api/utils/logger"
)

func main() {
	// setup and run app
	if err := app.SetupAndRunServer(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
