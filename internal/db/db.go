package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// DefaultPath 为未配置数据库路径时使用的文件。
const DefaultPath = "dinopage.db"

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 dinopage.db；cfg 为 nil 时使用 GORM 默认配置。
func Init(databasePath string, cfg *gorm.Config) error {
	gdb, err := Open(databasePath, cfg)
	if err != nil {
		return err
	}

	if err := Migrate(gdb); err != nil {
		return err
	}

	DB = gdb
	return nil
}

// Open 只建立连接，不做迁移。
func Open(databasePath string, cfg *gorm.Config) (*gorm.DB, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = DefaultPath
	}

	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	if cfg == nil {
		cfg = &gorm.Config{}
	}

	return gorm.Open(sqlite.Open(path), cfg)
}

// Models 返回需要迁移的全部模型，测试中也复用该列表。
func Models() []any {
	return []any{
		&User{},
		&Page{},
		&Menu{},
		&Setting{},
	}
}

// Migrate 为核心模型创建或补齐表结构。
func Migrate(gdb *gorm.DB) error {
	if gdb == nil {
		return errors.New("database not initialized")
	}
	return gdb.AutoMigrate(Models()...)
}

// Ping 检查底层连接是否可用。
func Ping(gdb *gorm.DB) error {
	if gdb == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close 关闭底层连接。
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") || path == ":memory:" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
