package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移后退出",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := openDatabase(); err != nil {
			return err
		}
		log.Info().Str("path", appConfig.Database.Path).Msg("database migrated")
		return nil
	},
}
