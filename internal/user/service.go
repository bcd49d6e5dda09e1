package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epathshala/exam-api/internal/auth"
	"github.com/epathshala/exam-api/internal/config"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

var validate = validator.New()

const tokenTTL = time.Hour * 12

type UserService interface {
	Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error)
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	GetByID(ctx context.Context, id string) (*UserResponse, error)
}

type userService struct {
	repo UserRepository
	db   *gorm.DB
}

func NewService(db *gorm.DB, repo UserRepository) UserService {
	return &userService{
		repo: repo,
		db:   db,
	}
}

func (s *userService) Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	if err := validate.Struct(dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !dto.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, dto.Role)
	}
	if dto.Role == RoleFaculty && dto.AssignedClass == "" {
		return nil, fmt.Errorf("%w: assigned_class is required for faculty", ErrValidation)
	}
	if dto.Role == RoleStudent && dto.StudentClass == "" {
		return nil, fmt.Errorf("%w: student_class is required for students", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, err
	}

	u := User{
		Name:     dto.Name,
		Email:    dto.Email,
		Password: string(hashed),
		Role:     dto.Role,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return err
		}

		switch dto.Role {
		case RoleFaculty:
			return tx.Create(&Teacher{
				UserID:        u.ID,
				Subject:       dto.Subject,
				AssignedClass: dto.AssignedClass,
			}).Error
		case RoleStudent:
			return tx.Create(&Student{
				UserID:       u.ID,
				StudentClass: dto.StudentClass,
			}).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Warnf("Registration with taken email: %s", dto.Email)
			return nil, ErrEmailTaken
		}
		log.WithError(err).Error("Failed to register user")
		return nil, err
	}

	log.Info("User registered", "user_id", u.ID.String())
	return s.toResponse(&u), nil
}

func (s *userService) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	log := config.WithContext(ctx)

	if err := validate.Struct(dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	u, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		log.WithError(err).Error("Failed to look up user by email")
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.Password)); err != nil {
		log.Warnf("Failed login attempt for %s", dto.Email)
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(u.ID.String(), string(u.Role), tokenTTL)
	if err != nil {
		log.WithError(err).Error("Failed to generate token")
		return nil, err
	}

	return &LoginResponse{
		Token: token,
		User:  *s.toResponse(u),
	}, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*UserResponse, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return s.toResponse(u), nil
}

func (s *userService) toResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
