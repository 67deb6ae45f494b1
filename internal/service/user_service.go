package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"gorm.io/gorm"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/auth"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/config"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/user"
)

var (
	// ErrLoginTaken 登录名已被占用
	ErrLoginTaken = errors.New("login already exists")
	// ErrInvalidCredentials 登录名或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserService struct {
	repo user.Repository
	jwt  *config.JWTConfig
}

func NewUserService(repo user.Repository, jwt *config.JWTConfig) *UserService {
	return &UserService{repo: repo, jwt: jwt}
}

func hashPassword(raw, salt string) string {
	h := sha256.Sum256([]byte(raw + salt))
	return hex.EncodeToString(h[:])
}

func newSalt() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// 极端情况下退化为固定盐，注册仍可完成
		return "ironfuel"
	}
	return hex.EncodeToString(b)
}

// Register 注册普通用户，登录名唯一
func (s *UserService) Register(ctx context.Context, login, password string) (*user.User, error) {
	if _, err := s.repo.GetByLogin(ctx, login); err == nil {
		return nil, ErrLoginTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	u := &user.User{
		Login: login,
		Salt:  newSalt(),
		Role:  user.RoleUser,
	}
	u.Password = hashPassword(password, u.Salt)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 校验密码并签发 JWT
func (s *UserService) Login(ctx context.Context, login, password string) (string, *user.User, error) {
	u, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if hashPassword(password, u.Salt) != u.Password {
		return "", nil, ErrInvalidCredentials
	}
	token, err := auth.GenerateToken(s.jwt, u.ID, u.Login, u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}
