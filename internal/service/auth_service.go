package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dinopage/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength 是注册时密码的最小长度。
const MinPasswordLength = 8

var (
	ErrAuthFieldsMissing    = errors.New("name, email and password are required")
	ErrAuthPasswordTooShort = errors.New("password is too short")
	ErrAuthEmailTaken       = errors.New("email already registered")
	ErrAuthInvalidLogin     = errors.New("invalid email or password")
	ErrRegistrationClosed   = errors.New("registration is closed")
	ErrUserNotFound         = errors.New("user not found")
)

// AuthService 负责后台账号的注册与密码登录。
type AuthService struct {
	db                *gorm.DB
	allowRegistration bool
}

// NewAuthService 构造 AuthService。allowRegistration 为 false 时只允许创建第一个账号。
func NewAuthService(gdb *gorm.DB, allowRegistration bool) *AuthService {
	return &AuthService{db: gdb, allowRegistration: allowRegistration}
}

// Register 创建新账号并保存 bcrypt 哈希，密码不做首尾空白处理。
func (s *AuthService) Register(name, email, password string) (*db.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrAuthFieldsMissing
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrAuthPasswordTooShort
	}

	var user db.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&db.User{}).Count(&total).Error; err != nil {
			return err
		}
		if total > 0 && !s.allowRegistration {
			return ErrRegistrationClosed
		}

		var taken int64
		if err := tx.Model(&db.User{}).Where("email = ?", email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrAuthEmailTaken
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user = db.User{Name: name, Email: email, PasswordHash: string(hashed)}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Authenticate 校验邮箱与密码，失败时统一返回 ErrAuthInvalidLogin。
func (s *AuthService) Authenticate(email, password string) (*db.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrAuthInvalidLogin
	}

	var user db.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthInvalidLogin
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrAuthInvalidLogin
	}
	return &user, nil
}

// Get 根据 ID 读取账号。
func (s *AuthService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
