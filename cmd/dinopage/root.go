package main

import (
	"fmt"
	"os"

	"github.com/dinopage/internal/config"
	"github.com/dinopage/internal/db"
	"github.com/dinopage/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	cfgFile   string
	appConfig config.AppConfig
	log       zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dinopage",
	Short: "DinoPage 内容管理后台",
	Long: `DinoPage 是一个轻量的站点内容管理服务：
管理页面、导航菜单、站点设置与自定义域名，并为前台提供只读接口。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute 运行根命令，出错时以非零状态退出
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./dinopage.yaml)")
	rootCmd.PersistentFlags().String("db", "", "sqlite database path, overrides database.path")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd, migrateCmd, adminCmd)
}

func initializeConfig(cmd *cobra.Command) error {
	var opts []config.Option
	if value, _ := cmd.Flags().GetString("db"); value != "" {
		opts = append(opts, config.WithOverride("database.path", value))
	}
	if value, _ := cmd.Flags().GetString("log-level"); value != "" {
		opts = append(opts, config.WithOverride("log.level", value))
	}
	if cmd.Flags().Lookup("addr") != nil {
		if value, _ := cmd.Flags().GetString("addr"); value != "" {
			opts = append(opts, config.WithOverride("server.listen_addr", value))
		}
	}

	cfg, err := config.Load(cfgFile, opts...)
	if err != nil {
		return err
	}
	appConfig = cfg
	log = logger.New(cfg.Log.Level, cfg.Log.Format)
	return nil
}

// openDatabase 初始化全局连接并完成迁移
func openDatabase() error {
	if err := db.Init(appConfig.Database.Path, &gorm.Config{Logger: logger.NewGormLogger(log)}); err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	return nil
}
