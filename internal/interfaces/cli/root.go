package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/teebooker/internal/config"
	"github.com/example/teebooker/internal/domain/booking"
)

var configPath string

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "teebook",
		Short:        "Tee time auto-booker for WebTrac golf sites",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to booking config file")
	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newBookCmd())
	cmd.AddCommand(newMonitorCmd())
	cmd.AddCommand(newSnipeCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func Execute() {
	if err := NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := newLogger()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("TEEBOOK_ENV") == "production" {
		return zap.NewProduction()
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zcfg.Build()
}

func contactFrom(cfg config.Config) booking.Contact {
	return booking.Contact{
		FirstName: cfg.UserInfo.FirstName,
		LastName:  cfg.UserInfo.LastName,
		Email:     cfg.UserInfo.Email,
		Phone:     cfg.UserInfo.Phone,
		Username:  cfg.UserInfo.Username,
		Password:  cfg.UserInfo.Password,
	}
}
