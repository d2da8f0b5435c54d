package main

import (
	"context"
	"github.com/RuiFG/storagebox/internal/container"
	"github.com/RuiFG/storagebox/internal/container/config"
	"github.com/RuiFG/storagebox/log"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"os"
)

var (
	configFile  string
	sessionID   string
	backendType string
	application config.Application
)

var Command = &cobra.Command{
	Use:           "storagebox",
	Short:         "inspect and edit the persisted property snapshot of a session",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		err := configure(cmd)
		if err != nil {
			// the configured logger can't be built, report through the default one
			log.Setup(log.DefaultOptions().WithOutputEncoder(log.ConsoleOutputEncoder).WithNamed("storagebox"))
		}
		return err
	},
}

func configure(cmd *cobra.Command) (err error) {
	if err = godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.WithMessage(err, "failed to load .env")
	}
	if application, err = config.Load(configFile); err != nil {
		return err
	}
	if cmd.Flags().Changed("session") {
		application.Session.ID = sessionID
	}
	if cmd.Flags().Changed("backend") {
		application.Backend.Type = backendType
	}
	return container.SetupLogger(application)
}

func init() {
	Command.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file, default ./storagebox.yml or ./config/storagebox.yml")
	Command.PersistentFlags().StringVarP(&sessionID, "session", "s", "", "session id, overrides session.id")
	Command.PersistentFlags().StringVarP(&backendType, "backend", "b", "", "memory, fs or redis, overrides backend.type")
}

func main() {
	if err := Command.ExecuteContext(context.Background()); err != nil {
		log.Global().Fatalw("command failed.", "err", err)
	}
}
