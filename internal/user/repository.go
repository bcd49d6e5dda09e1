package user

import (
	"errors"

	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(u *User) error
	GetByID(id string) (*User, error)
	GetByEmail(email string) (*User, error)

	CreateTeacher(t *Teacher) error
	CreateStudent(s *Student) error
	GetTeacherByUserID(userID string) (*Teacher, error)
	GetStudentByUserID(userID string) (*Student, error)
	GetStudentByID(id string) (*Student, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(u *User) error {
	return r.db.Create(u).Error
}

func (r *userRepository) GetByID(id string) (*User, error) {
	var u User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(email string) (*User, error) {
	var u User
	if err := r.db.First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) CreateTeacher(t *Teacher) error {
	return r.db.Create(t).Error
}

func (r *userRepository) CreateStudent(s *Student) error {
	return r.db.Create(s).Error
}

func (r *userRepository) GetTeacherByUserID(userID string) (*Teacher, error) {
	var t Teacher
	if err := r.db.First(&t, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *userRepository) GetStudentByUserID(userID string) (*Student, error) {
	var s Student
	if err := r.db.First(&s, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *userRepository) GetStudentByID(id string) (*Student, error) {
	var s Student
	if err := r.db.Preload("User").First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
