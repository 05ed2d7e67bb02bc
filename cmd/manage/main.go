package main

import (
	"artcase-backend/config"
	"artcase-backend/internal/repository/mysql"
	"artcase-backend/internal/service"
	"artcase-backend/internal/util"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	schemaFile string
	db         *sql.DB
)

var rootCmd = &cobra.Command{
	Use:   "manage",
	Short: "手机壳定制社区后台维护命令",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Init()
		util.InitLogger(config.AppConfig.LogLevel)

		// migrate 需要一次执行多条语句
		var err error
		db, err = sql.Open("mysql", config.AppConfig.MySQLDSN("multiStatements=true"))
		if err != nil {
			return fmt.Errorf("连接数据库失败: %w", err)
		}
		if err := db.Ping(); err != nil {
			return fmt.Errorf("数据库连接测试失败: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
		util.Logger.Sync()
	},
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行建表脚本",
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := os.ReadFile(schemaFile)
		if err != nil {
			return fmt.Errorf("读取建表脚本失败: %w", err)
		}
		if strings.TrimSpace(string(script)) == "" {
			return fmt.Errorf("建表脚本为空: %s", schemaFile)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("执行建表脚本失败: %w", err)
		}
		util.Logger.Info("数据库结构已更新", zap.String("file", schemaFile))
		fmt.Fprintln(cmd.OutOrStdout(), "Schema applied.")
		return nil
	},
}

var populateCmd = &cobra.Command{
	Use:   "populate-phone-products",
	Short: "导入内置的手机壳目录",
	RunE: func(cmd *cobra.Command, args []string) error {
		products := service.NewPhoneProductService(mysql.NewPhoneProductRepository(db))
		result, err := products.Populate()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d, updated %d phone products.\n", result.Created, result.Updated)
		return nil
	},
}

var updateURLsCmd = &cobra.Command{
	Use:   "update-phone-urls",
	Short: "按内置表修正目录图片地址",
	RunE: func(cmd *cobra.Command, args []string) error {
		products := service.NewPhoneProductService(mysql.NewPhoneProductRepository(db))
		updated, missing, err := products.UpdateURLs()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Updated %d phone product URLs.\n", updated)
		for _, m := range missing {
			fmt.Fprintf(out, "No URL mapping for %s\n", m)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&schemaFile, "file", "migrations/schema.sql", "建表脚本路径")
	rootCmd.AddCommand(migrateCmd, populateCmd, updateURLsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
