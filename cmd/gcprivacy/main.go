package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/gcprivacy/internal/app"
	"github.com/ternarybob/gcprivacy/internal/common"
	"github.com/ternarybob/gcprivacy/internal/garmin"
)

var (
	// Command-line flags
	configFile   = flag.String("config", "", "Configuration file path (default: gcprivacy.toml if present)")
	username     = flag.String("username", "", "Garmin Connect username (otherwise, you will be prompted)")
	password     = flag.String("password", "", "Garmin Connect password (otherwise, you will be prompted)")
	startDate    = flag.String("startdate", "", "Date of the first activity to update, e.g. 2018-09-30 (otherwise, you will be prompted)")
	endDate      = flag.String("enddate", "", "Date of the last activity to update, e.g. 2018-10-30 (otherwise, you will be prompted)")
	privacy      = flag.String("privacy", "", "Privacy level: private, subscribers, groups, public, or 1-4")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("gcprivacy version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// A .env file can carry GARMIN_USERNAME / GARMIN_PASSWORD so credentials
	// stay out of argv. Missing file is fine.
	_ = godotenv.Load()

	config, err := common.LoadFromFile(*configFile)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config).WithCorrelationId(common.NewRunID())

	common.PrintBanner(common.GetVersion())

	opts, err := resolveOptions(config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to resolve run options")
		os.Exit(1)
	}

	runner, err := app.New(opts, garmin.DefaultEndpoints(), config.Garmin.RateLimit, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid run options")
		os.Exit(1)
	}

	if err := runner.Run(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

// resolveOptions merges flags over config/env, prompting interactively for
// anything still missing. Prompted values are re-requested until valid;
// flag and config values go through app.Options validation instead.
func resolveOptions(config *common.Config) (app.Options, error) {
	opts := app.Options{
		Username:  *username,
		Password:  *password,
		StartDate: *startDate,
		EndDate:   *endDate,
		Privacy:   *privacy,
		Limit:     config.Garmin.SearchLimit,
	}

	if opts.Username == "" {
		opts.Username = config.Garmin.Username
	}
	if opts.Password == "" {
		opts.Password = os.Getenv("GARMIN_PASSWORD")
	}
	if opts.Privacy == "" {
		opts.Privacy = config.Garmin.Privacy
	}

	prompter := newPrompter()

	if opts.Username == "" {
		opts.Username = prompter.requiredLine("Username: ", "Please enter a username.")
	}
	if opts.Password == "" {
		var err error
		opts.Password, err = prompter.passwordLine("Password: ")
		if err != nil {
			return opts, err
		}
	}
	if opts.Privacy == "" {
		opts.Privacy = prompter.privacyLevel()
	}
	if opts.StartDate == "" || opts.EndDate == "" {
		fmt.Println()
		fmt.Println("Select Activities")
		fmt.Printf("  Up to %d activities can be processed at one time.\n", opts.Limit)
		fmt.Println("  Leave the start date blank to start at the beginning.")
		fmt.Println("  Leave the end date blank to end at the latest activity.")
		fmt.Println()
		if opts.StartDate == "" {
			opts.StartDate = prompter.date(`  Start Date (e.g. "2018-09-30" or blank): `)
		}
		if opts.EndDate == "" {
			opts.EndDate = prompter.date(`  End Date (e.g. "2018-10-30" or blank): `)
		}
	}

	return opts, nil
}
