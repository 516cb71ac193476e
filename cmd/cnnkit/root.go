package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.lorenzomilicia.dev/cnnkit/internal/artifacts"
	"go.lorenzomilicia.dev/cnnkit/internal/imagecodec"
)

var rootCmd = &cobra.Command{
	Use:           "cnnkit",
	Short:         "Config and artifact tooling for the image classifier pipeline",
	Long:          `A CLI to inspect pipeline configuration, prepare artifact directories, move image payloads to and from base64, and push artifacts to remote storage.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var envFile string
var debug bool

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Path to .env file to load before running commands")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	// Configure logging and load .env file if provided before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		setupLogging(debug)
		if envFile == "" {
			return nil
		}
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file '%s': %w", envFile, err)
		}
		return nil
	}
}

func setupLogging(debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func newStore() *artifacts.Store {
	return artifacts.NewStore(log.Logger)
}

func newCodec() *imagecodec.Codec {
	return imagecodec.NewCodec(log.Logger)
}
