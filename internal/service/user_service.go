package service

import (
	"context"
	"fmt"

	"file-sharing-server/internal/model"
	"file-sharing-server/internal/ports"
	"file-sharing-server/internal/security"
	"file-sharing-server/internal/util"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService : регистрация и вход. Для движка доступа пользователь —
// непрозрачный аутентифицированный идентификатор, вся криптография живёт
// здесь и в security.
type UserService struct {
	userDirectory ports.UserDirectory
	jwtService    *security.JWTService
}

func NewUserService(userDirectory ports.UserDirectory, jwtService *security.JWTService) *UserService {
	return &UserService{
		userDirectory: userDirectory,
		jwtService:    jwtService,
	}
}

// Register : создаёт пользователя и сразу выдаёт access токен
func (s *UserService) Register(ctx context.Context, email, name, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: [UserService] email и пароль обязательны", model.ErrInvalidInput)
	}

	existing, err := s.userDirectory.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}
	if existing != nil {
		return "", nil, fmt.Errorf("%w: [UserService] email уже занят", model.ErrInvalidInput)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, util.LogError("[UserService] ошибка хэширования пароля", err)
	}

	user, err := s.userDirectory.CreateUser(ctx, &model.User{
		UUID:         uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}

	token, err := s.jwtService.GenerateAccessToken(user.UUID)
	if err != nil {
		return "", nil, util.LogError("[UserService] ошибка выдачи токена", err)
	}

	return token, user, nil
}

// Login : проверяет пароль и выдаёт access токен
func (s *UserService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: [UserService] email и пароль обязательны", model.ErrInvalidInput)
	}

	user, err := s.userDirectory.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}
	if user == nil {
		return "", nil, fmt.Errorf("%w: [UserService] неверные учётные данные", model.ErrInvalidInput)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: [UserService] неверные учётные данные", model.ErrInvalidInput)
	}

	token, err := s.jwtService.GenerateAccessToken(user.UUID)
	if err != nil {
		return "", nil, util.LogError("[UserService] ошибка выдачи токена", err)
	}

	return token, user, nil
}

// FindByEmail : поиск пользователя для шаринга по email
func (s *UserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: [UserService] email обязателен", model.ErrInvalidInput)
	}

	user, err := s.userDirectory.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: [UserService] пользователь не найден", model.ErrNotFound)
	}

	return user, nil
}
