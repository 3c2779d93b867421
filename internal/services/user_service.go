package services

import (
	"context"
	"unicode/utf8"

	"taskhive/internal/apperrors"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	// Authenticate returns (nil, nil) on bad credentials and updates the
	// user's last login on success.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userService struct {
	repo repositories.UserRepository
	auth AuthService
}

func NewUserService(repo repositories.UserRepository, auth AuthService) UserService {
	return &userService{repo: repo, auth: auth}
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	user := &models.User{
		Email:     models.NormalizeEmail(input.Email),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      models.RoleMember,
	}

	errs := user.Validate()
	if utf8.RuneCountInString(input.Password) < 8 {
		errs = append(errs, "Password is too short (minimum is 8 characters)")
	}
	if len(errs) == 0 {
		existing, err := s.repo.FindByEmail(ctx, user.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			errs = append(errs, "Email has already been taken")
		}
	}
	if len(errs) > 0 {
		return nil, apperrors.Validation(errs...)
	}

	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	welcome := models.NewActivity(models.ActionUserRegistered, nil, nil, nil,
		map[string]any{"email": user.Email})
	if err := s.repo.Store(ctx, user, welcome); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !s.auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}
	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.repo.List(ctx, limit, offset)
}
