package main

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dinopage/internal/db"
	"github.com/dinopage/internal/service"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "管理后台账号",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "创建管理员账号，邮箱已存在时不做修改",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")

		if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
			return errors.New("--email and --password are required")
		}
		if utf8.RuneCountInString(password) < service.MinPasswordLength {
			return fmt.Errorf("password must be at least %d characters", service.MinPasswordLength)
		}

		if err := openDatabase(); err != nil {
			return err
		}
		defer db.Close(db.DB)

		created, err := db.EnsureUser(email, password, name)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		if !created {
			fmt.Fprintln(cmd.OutOrStdout(), "用户已存在，无需创建")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "管理员 %s 创建成功\n", strings.ToLower(strings.TrimSpace(email)))
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().String("email", "", "admin email")
	adminCreateCmd.Flags().String("password", "", "admin password")
	adminCreateCmd.Flags().String("name", "Admin", "display name")
	adminCmd.AddCommand(adminCreateCmd)
}
