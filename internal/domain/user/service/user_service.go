package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"course_mall/internal/domain/user/model"
	"course_mall/internal/domain/user/repository"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/database"
	"course_mall/pkg/response"
	"course_mall/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput 注册参数
type RegisterInput struct {
	FullName  string
	Email     string
	Password  string
	Password2 string
}

// TeacherInput 讲师资料
type TeacherInput struct {
	FullName string
	Bio      string
	About    string
	Country  string
}

// LoginResult 登录结果
type LoginResult struct {
	Token    string      `json:"token"`
	ExpireAt *time.Time  `json:"expireAt"`
	User     *model.User `json:"user"`
}

// UserService 用户服务接口
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	BecomeTeacher(ctx context.Context, userID string, in TeacherInput) (*model.Teacher, error)
	TeacherIDByUserID(ctx context.Context, userID string) (string, error)
}

// userService 实现
type userService struct {
	repo repository.UserRepository
	tx   database.TxRunner
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, tx database.TxRunner) UserService {
	return &userService{repo: repo, tx: tx}
}

// Register 注册，两次密码不一致直接拒绝
func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Password != in.Password2 {
		return nil, bizerr.Validation(response.ErrPasswordMismatch, "passwords do not match")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, bizerr.New(bizerr.KindConflict, response.ErrUserExists, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("query user by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	fullName := in.FullName
	if fullName == "" {
		// 默认昵称取邮箱前缀
		fullName = strings.SplitN(email, "@", 2)[0]
	}

	user := &model.User{
		FullName: fullName,
		Email:    email,
		Password: string(hash),
		Role:     model.RoleStudent,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login 邮箱密码登录
func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerr.New(bizerr.KindUnauthorized, response.ErrAuthFailed, "invalid email or password")
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, bizerr.New(bizerr.KindUnauthorized, response.ErrAuthFailed, "invalid email or password")
	}

	token, expireAt, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &LoginResult{Token: token, ExpireAt: expireAt, User: user}, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerr.NotFound(response.ErrUserNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

// BecomeTeacher 创建讲师资料并提升角色
func (s *userService) BecomeTeacher(ctx context.Context, userID string, in TeacherInput) (*model.Teacher, error) {
	var teacher *model.Teacher
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizerr.NotFound(response.ErrUserNotFound, "user not found")
			}
			return err
		}

		if _, err := repo.GetTeacherByUserID(ctx, userID); err == nil {
			return bizerr.New(bizerr.KindConflict, response.ErrTeacherExists, "teacher profile already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		fullName := in.FullName
		if fullName == "" {
			fullName = user.FullName
		}
		teacher = &model.Teacher{
			UserID:   userID,
			FullName: fullName,
			Bio:      in.Bio,
			About:    in.About,
			Country:  in.Country,
		}
		if err := repo.CreateTeacher(ctx, teacher); err != nil {
			return fmt.Errorf("create teacher: %w", err)
		}

		if user.Role == model.RoleAdmin {
			return nil
		}
		return repo.UpdateRole(ctx, userID, model.RoleTeacher)
	})
	if err != nil {
		return nil, err
	}
	return teacher, nil
}

// TeacherIDByUserID 供讲师中间件使用
func (s *userService) TeacherIDByUserID(ctx context.Context, userID string) (string, error) {
	teacher, err := s.repo.GetTeacherByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", bizerr.NotFound(response.ErrTeacherNotFound, "teacher not found")
		}
		return "", err
	}
	return teacher.ID, nil
}
