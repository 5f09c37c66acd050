// Package auth contiene los casos de uso de autenticación: registro, login y
// creación perezosa del perfil en el primer inicio de sesión.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/prism-crm/prism-api/internal/application/dto"
	"github.com/prism-crm/prism-api/internal/domain"
	"github.com/prism-crm/prism-api/internal/domain/crm"
	"github.com/prism-crm/prism-api/internal/domain/entity"
	"github.com/prism-crm/prism-api/internal/domain/repository"
	"github.com/prism-crm/prism-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, profileRepo: profileRepo, jwtCfg: jwtCfg}
}

// Register valida la política de alta (email válido, password con mayúscula,
// minúscula y dígito, nombre completo), hashea el password con bcrypt y
// persiste el usuario. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if verr := crm.ValidateSignUp(in.Email, in.Password, in.FullName); verr != nil {
		return nil, verr
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, garantiza que exista el perfil del usuario
// y genera el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if err := uc.ensureProfile(ctx, user); err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// ensureProfile crea el perfil del usuario solo si no existe todavía
// (upsert-if-missing). El check-then-insert estrecha pero no elimina la
// carrera entre dos primeros logins simultáneos; el constraint único de
// user_id la cierra, y ErrDuplicate aquí cuenta como éxito.
func (uc *AuthUseCase) ensureProfile(ctx context.Context, user *entity.User) error {
	existing, err := uc.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	fullName := user.FullName
	if fullName == "" {
		fullName = "User"
	}
	profile := &entity.Profile{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		FullName:  fullName,
		CreatedAt: time.Now(),
	}
	if err := uc.profileRepo.Create(ctx, profile); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	return nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}
