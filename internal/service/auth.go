package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository"
)

var (
	ErrWrongPassword = errors.New("wrong password")
	ErrNotStaff      = errors.New("account has no staff access")
)

type AuthParticipantRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.Participant, error)
}

// AuthService authenticates staff accounts (ops and admin). Regular
// participants never log in; their QR badge is the credential.
type AuthService struct {
	repo AuthParticipantRepository
}

func NewAuthService(repo AuthParticipantRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Participant, error) {
	staff, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return domain.Participant{}, ErrParticipantNotFound
		}

		return domain.Participant{}, fmt.Errorf("s.repo.GetByEmail -> %w", err)
	}

	if staff.Role != domain.RoleOps && staff.Role != domain.RoleAdmin {
		return domain.Participant{}, ErrNotStaff
	}

	if staff.Password == "" {
		return domain.Participant{}, ErrWrongPassword
	}
	if err = bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)); err != nil {
		return domain.Participant{}, ErrWrongPassword
	}

	return staff, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
