package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vobon-server/internal/core/config"
	"vobon-server/internal/core/database"
	"vobon-server/internal/core/logger"
	"vobon-server/internal/repo"
	"vobon-server/internal/service"
)

// env 单次命令执行所需的依赖
type env struct {
	store *repo.Store
	log   *zap.Logger
	close func()
}

func openEnv(cfgPath string) (*env, error) {
	cfg, err := config.Read(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		LogWriter:          logger.ToWriter(log.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		cleanup()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &env{
		store: repo.NewStore(db),
		log:   log,
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			cleanup()
		},
	}, nil
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "vobon-admin",
		Short:         "Operator tasks for the vobon server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("CONFIG_PATH"), "path to config yaml")

	open := func() (*env, error) { return openEnv(cfgPath) }
	root.AddCommand(migrateCmd(open), promoteCmd(open), seedCmd(open))
	return root
}

func migrateCmd(open func() (*env, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()
			e.log.Info("schema is up to date")
			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		},
	}
}

// promoteCmd HTTP 接口不能创建管理员，只能由运维授予
func promoteCmd(open func() (*env, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to a registered user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()
			u, err := service.NewIdentityService(service.Deps{Store: e.store, Log: e.log}).
				Promote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, u.Role)
			return nil
		},
	}
}

func seedCmd(open func() (*env, error)) *cobra.Command {
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Load fixture data",
	}
	seed.AddCommand(&cobra.Command{
		Use:   "apartments <file.json>",
		Short: "Insert apartments from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var in []service.ApartmentInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()
			out, err := service.NewCatalogService(service.Deps{Store: e.store, Log: e.log}).
				Seed(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d apartments\n", len(out))
			return nil
		},
	})
	return seed
}
