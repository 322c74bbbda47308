package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const defaultDatabasePath = "blog.db"

// ErrUnsupportedDatabase is returned for connection strings no dialect can serve.
var ErrUnsupportedDatabase = errors.New("unsupported database url")

// Open 根据连接串选择方言、建立连接并执行自动迁移。
// "mysql://" 前缀走 MySQL，其余（"sqlite://"、"file:" 或文件路径）走 SQLite；
// 连接串为空时回退到 blog.db。
func Open(databaseURL string, cfg *gorm.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(databaseURL)
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		cfg = &gorm.Config{}
	}
	cfg.TranslateError = true

	gdb, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Migrate creates the blog tables when they are absent.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&User{}, &Post{}, &Comment{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
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

func dialectorFor(databaseURL string) (gorm.Dialector, error) {
	raw := strings.TrimSpace(databaseURL)
	if raw == "" {
		raw = defaultDatabasePath
	}

	switch {
	case strings.HasPrefix(raw, "mysql://"):
		return mysql.Open(strings.TrimPrefix(raw, "mysql://")), nil
	case strings.HasPrefix(raw, "sqlite://"):
		raw = strings.TrimPrefix(raw, "sqlite://")
	case strings.Contains(raw, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatabase, raw[:strings.Index(raw, "://")])
	}

	if !strings.HasPrefix(raw, "file:") && raw != ":memory:" {
		if err := ensureParentDir(raw); err != nil {
			return nil, err
		}
	}

	return sqlite.Open(raw), nil
}

func ensureParentDir(path string) error {
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
