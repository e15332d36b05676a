package service

import (
	"context"
	"testing"
	"course_mall/internal/domain/user/model"
	"course_mall/internal/domain/user/repository"
	"course_mall/internal/pkg/config"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) WithTx(_ *gorm.DB) repository.UserRepository {
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role int) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) CreateTeacher(ctx context.Context, teacher *model.Teacher) error {
	args := m.Called(ctx, teacher)
	return args.Error(0)
}

func (m *MockUserRepository) GetTeacherByID(ctx context.Context, id string) (*model.Teacher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Teacher), args.Error(1)
}

func (m *MockUserRepository) GetTeacherByUserID(ctx context.Context, userID string) (*model.Teacher, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Teacher), args.Error(1)
}

// stubTxRunner 直接执行回调
type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func setupJWT(t *testing.T) {
	saved := config.GlobalConfig.JWT
	config.GlobalConfig.JWT = config.JWTConfig{Secret: "user-service-test-secret-0123456789", Expire: 1}
	t.Cleanup(func() { config.GlobalConfig.JWT = saved })
}

func createTestUser(id, email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{FullName: "Test User", Email: email, Password: string(hash), Role: model.RoleStudent}
	u.ID = id
	return u
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Password mismatch is rejected before any query", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, stubTxRunner{})

		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "secret1", Password2: "secret2"})

		be, ok := bizerr.As(err)
		require.True(t, ok)
		assert.Equal(t, bizerr.KindValidation, be.Kind)
		assert.Equal(t, response.ErrPasswordMismatch, be.Code)
		mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("New user registration success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, stubTxRunner{})

		mockRepo.On("GetByEmail", ctx, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := svc.Register(ctx, RegisterInput{Email: " Alice@Example.com", Password: "secret1", Password2: "secret1"})

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "alice", user.FullName)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, stubTxRunner{})

		mockRepo.On("GetByEmail", ctx, "bob@example.com").Return(createTestUser("u1", "bob@example.com", "x"), nil)

		_, err := svc.Register(ctx, RegisterInput{Email: "bob@example.com", Password: "secret1", Password2: "secret1"})
		assert.True(t, bizerr.IsKind(err, bizerr.KindConflict))
	})
}

func TestLogin(t *testing.T) {
	setupJWT(t)
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo, stubTxRunner{})

	user := createTestUser("user-1", "carol@example.com", "secret1")
	mockRepo.On("GetByEmail", ctx, "carol@example.com").Return(user, nil)
	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	t.Run("Login success", func(t *testing.T) {
		result, err := svc.Login(ctx, "carol@example.com", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "user-1", result.User.ID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "carol@example.com", "wrong")
		assert.True(t, bizerr.IsKind(err, bizerr.KindUnauthorized))
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "secret1")
		assert.True(t, bizerr.IsKind(err, bizerr.KindUnauthorized))
	})
}

func TestBecomeTeacher(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates profile and promotes role", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, stubTxRunner{})

		mockRepo.On("GetByID", ctx, "user-1").Return(createTestUser("user-1", "t@example.com", "x"), nil)
		mockRepo.On("GetTeacherByUserID", ctx, "user-1").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("CreateTeacher", ctx, mock.MatchedBy(func(teacher *model.Teacher) bool {
			return teacher.UserID == "user-1" && teacher.FullName == "Test User"
		})).Return(nil)
		mockRepo.On("UpdateRole", ctx, "user-1", model.RoleTeacher).Return(nil)

		teacher, err := svc.BecomeTeacher(ctx, "user-1", TeacherInput{Bio: "Go"})
		require.NoError(t, err)
		assert.Equal(t, "Go", teacher.Bio)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Already a teacher", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, stubTxRunner{})

		mockRepo.On("GetByID", ctx, "user-2").Return(createTestUser("user-2", "t2@example.com", "x"), nil)
		mockRepo.On("GetTeacherByUserID", ctx, "user-2").Return(&model.Teacher{UserID: "user-2"}, nil)

		_, err := svc.BecomeTeacher(ctx, "user-2", TeacherInput{})
		assert.True(t, bizerr.IsKind(err, bizerr.KindConflict))
		mockRepo.AssertNotCalled(t, "CreateTeacher", mock.Anything, mock.Anything)
	})

	t.Run("Unknown user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := NewUserService(mockRepo, stubTxRunner{})

		mockRepo.On("GetByID", ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.BecomeTeacher(ctx, "ghost", TeacherInput{})
		assert.True(t, bizerr.IsKind(err, bizerr.KindNotFound))
	})
}

func TestTeacherIDByUserID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo, stubTxRunner{})

	teacher := &model.Teacher{UserID: "user-1"}
	teacher.ID = "teacher-1"
	mockRepo.On("GetTeacherByUserID", ctx, "user-1").Return(teacher, nil)
	mockRepo.On("GetTeacherByUserID", ctx, "user-2").Return(nil, gorm.ErrRecordNotFound)

	id, err := svc.TeacherIDByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", id)

	_, err = svc.TeacherIDByUserID(ctx, "user-2")
	assert.True(t, bizerr.IsKind(err, bizerr.KindNotFound))
}
