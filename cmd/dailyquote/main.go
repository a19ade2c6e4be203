// Command dailyquote serves the daily quote API and offers a few operator
// subcommands.
//
//	dailyquote serve              run the HTTP server (default)
//	dailyquote migrate            create or update the database schema
//	dailyquote today [--at TIME]  print the quote of the day
//	dailyquote quote-id <text>    print the content address of a quote
//
// Configuration is read from the environment, optionally seeded from a .env
// file in the working directory.
//
// @title                      Daily Quote API
// @version                    1.0
// @description                One quote per day, with a moderated comment thread.
// @BasePath                   /api
// @schemes                    http https
// @securityDefinitions.apikey AdminBearer
// @in                         header
// @name                       Authorization
// @description                "Bearer <ADMIN_SECRET>"
package main

import (
	"os"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("dailyquote failed")
		os.Exit(1)
	}
}
