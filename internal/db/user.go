package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了后台用户模型
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	Image        string `gorm:"size:500"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EnsureUser 存在性检查：若邮箱与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的用户。
// 密码按原样哈希，不去除首尾空白，与登录校验保持一致。
// 返回值 created 表示本次是否新建了账号。
func EnsureUser(email, password, name string) (bool, error) {
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	if trimmedEmail == "" || strings.TrimSpace(password) == "" {
		return false, nil
	}

	if DB == nil {
		return false, errors.New("database not initialized")
	}

	var existing User
	err := DB.Where("email = ?", trimmedEmail).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	user := User{
		Name:         strings.TrimSpace(name),
		Email:        trimmedEmail,
		PasswordHash: string(hashed),
	}
	if err := DB.Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}
