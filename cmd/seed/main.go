package main

import (
	"context"

	"github.com/disserto/disserto-api/app"
	"github.com/disserto/disserto-api/config"
	"github.com/disserto/disserto-api/database"
	"github.com/disserto/disserto-api/utils/logger"
	flag "github.com/spf13/pflag"
)

func main() {
	demo := flag.Bool("demo", false, "also create an HOD, faculty member and student")
	department := flag.StringP("department", "d", "Computer Science", "department for the demo users")
	demoPassword := flag.String("demo-password", "password123", "password for the demo users")
	flag.Parse()

	if err := config.LoadENV(); err != nil {
		logger.Fatal().Err(err).Msg("failed to load .env")
	}
	env, err := config.Get()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to read configuration")
	}
	logger.Configure(logger.Config{Level: env.LOG_LEVEL, Pretty: true})

	if env.DB_DRIVER == config.DriverMemory {
		logger.Fatal().Msg("seeding the in-memory store has no effect; set DB_DRIVER=postgres")
	}

	store, err := app.OpenStore(env)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Close()

	ctx := context.Background()
	seeder := database.NewSeeder(store.Repositories())

	if _, err := seeder.SeedAdminUser(ctx, env.ADMIN_EMAIL, env.ADMIN_PASSWORD, env.ADMIN_NAME); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed admin user")
	}

	if *demo {
		n, err := seeder.SeedDemoUsers(ctx, *department, *demoPassword)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo users")
		}
		logger.Info().Int("created", n).Str("department", *department).Msg("demo users seeded")
	}

	logger.Info().Msg("seeding completed")
}
