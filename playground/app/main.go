package main

import (
	"fmt"
	"os"

	"github.com/a-peyrard/jamocha"
	"github.com/a-peyrard/jamocha/config"
	"github.com/a-peyrard/jamocha/option"
	"github.com/a-peyrard/jamocha/playground/app/client"
)

//go:generate go run ../../cmd/generator --namespace github.com/a-peyrard/jamocha/playground/app --output components_gen.go

const appNamespace = "github.com/a-peyrard/jamocha/playground/app"

func main() {
	settings, err := config.Load[config.Settings](config.WithDotEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}
	logger := settings.Logger()

	namespace := settings.Namespace
	if namespace == "" {
		namespace = appNamespace
	}

	container := jamocha.New(
		RegisterComponents(jamocha.NewStaticScanner()),
		jamocha.WithLogger(logger),
		option.When(settings.Parallelism > 1, jamocha.WithParallelism(settings.Parallelism)),
	)
	if err = container.Start(namespace); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start container")
	}

	userAccountClient, err := jamocha.Get[*client.UserAccountClient](container)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to get the user account client")
	}
	if err = userAccountClient.DisplayUserAccount(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("Failed to display the user account")
	}

	logger.Debug().Msgf("here is what we have in store:\n%s", container.Describe())
	logger.Info().Msg("bye.")
}
