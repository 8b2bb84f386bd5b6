package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/premium-blog/internal/config"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/migrations"
	"github.com/magabrotheeeer/premium-blog/internal/smsgateway"
	"github.com/magabrotheeeer/premium-blog/internal/storage/repository"
)

func migrateCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции базы данных",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.MustLoad()
			if path == "" {
				path = cfg.MigrationsPath
			}
			db, err := repository.New(cfg.StorageConnectionString)
			if err != nil {
				return fmt.Errorf("connect storage: %w", err)
			}
			defer func() { _ = db.Close() }()

			if err := migrations.Run(db.DB, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "каталог с миграциями (по умолчанию из конфига)")
	return cmd
}

func sendSMSCmd() *cobra.Command {
	var to, text string
	cmd := &cobra.Command{
		Use:   "send-sms",
		Short: "Отправить SMS через настроенный шлюз",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.MustLoad()
			logger := sl.New(cfg.Env, os.Stderr)
			client := smsgateway.New(cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSTimeout, logger)

			res, err := client.Send(cmd.Context(), to, text)
			if res != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "status code: %d\n%s\n", res.StatusCode, res.Raw)
			}
			if err != nil {
				return err
			}
			logger.Info("sms sent", slog.String("to", to), slog.String("status", res.Status))
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "номер получателя")
	cmd.Flags().StringVar(&text, "text", "", "текст сообщения")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}
