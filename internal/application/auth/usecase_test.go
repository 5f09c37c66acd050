package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/prism-crm/prism-api/internal/application/auth"
	"github.com/prism-crm/prism-api/internal/application/dto"
	"github.com/prism-crm/prism-api/internal/domain"
	"github.com/prism-crm/prism-api/internal/domain/crm"
	"github.com/prism-crm/prism-api/internal/domain/entity"
	"github.com/prism-crm/prism-api/pkg/jwt"
)

type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.byEmail[email], nil
}

type fakeProfileRepo struct {
	byUserID    map[string]*entity.Profile
	createCalls int
	createErr   error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUserID: map[string]*entity.Profile{}}
}

func (r *fakeProfileRepo) Create(_ context.Context, p *entity.Profile) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byUserID[p.UserID]; ok {
		return domain.ErrDuplicate
	}
	r.byUserID[p.UserID] = p
	return nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	return r.byUserID[userID], nil
}

var testJWT = auth.JWTConfig{Secret: "secreto-de-test", ExpMinutes: 60, Issuer: "prism-api"}

func newAuthUseCase() (*auth.AuthUseCase, *fakeUserRepo, *fakeProfileRepo) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	return auth.NewAuthUseCase(users, profiles, testJWT), users, profiles
}

func TestAuth_RegisterHasheaYNormaliza(t *testing.T) {
	uc, users, _ := newAuthUseCase()

	out, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:    "Ana@Example.COM",
		Password: "Secreta1",
		FullName: "Ana Prueba",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", out.Email, "el email se guarda en minúsculas")

	stored := users.byEmail["ana@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "Secreta1", stored.PasswordHash, "el password nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Secreta1")))
}

func TestAuth_RegisterPoliticaDePassword(t *testing.T) {
	uc, _, _ := newAuthUseCase()

	cases := []struct {
		name     string
		password string
	}{
		{"muy corto", "Ab1"},
		{"sin mayúscula", "secreta123"},
		{"sin dígito", "SecretaSecreta"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Register(context.Background(), dto.RegisterRequest{
				Email:    "ana@example.com",
				Password: tc.password,
				FullName: "Ana",
			})
			var verr *crm.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "password", verr.Field)
		})
	}
}

func TestAuth_RegisterEmailDuplicado(t *testing.T) {
	uc, _, _ := newAuthUseCase()
	req := dto.RegisterRequest{Email: "ana@example.com", Password: "Secreta1", FullName: "Ana"}

	_, err := uc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestAuth_LoginEmiteTokenVerificable(t *testing.T) {
	uc, _, _ := newAuthUseCase()
	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "ana@example.com", Password: "Secreta1", FullName: "Ana",
	})
	require.NoError(t, err)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "Secreta1"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	userID, email, err := jwt.Parse(testJWT.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, "ana@example.com", email)
}

func TestAuth_LoginCredencialesInvalidas(t *testing.T) {
	uc, _, _ := newAuthUseCase()
	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "ana@example.com", Password: "Secreta1", FullName: "Ana",
	})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: "Secreta1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// El perfil se crea en el primer login y solo en el primero.
func TestAuth_LoginCreaPerfilUnaVez(t *testing.T) {
	uc, _, profiles := newAuthUseCase()
	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "ana@example.com", Password: "Secreta1", FullName: "Ana Prueba",
	})
	require.NoError(t, err)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "Secreta1"})
	require.NoError(t, err)
	require.Equal(t, 1, profiles.createCalls)

	profile := profiles.byUserID[out.User.ID]
	require.NotNil(t, profile)
	assert.Equal(t, "Ana Prueba", profile.FullName)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "Secreta1"})
	require.NoError(t, err)
	assert.Equal(t, 1, profiles.createCalls, "el segundo login no vuelve a crear el perfil")
}

// Si dos primeros logins corren en paralelo, el perdedor de la carrera recibe
// ErrDuplicate del constraint único y el login igual tiene éxito.
func TestAuth_LoginToleraPerfilDuplicado(t *testing.T) {
	uc, _, profiles := newAuthUseCase()
	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "ana@example.com", Password: "Secreta1", FullName: "Ana",
	})
	require.NoError(t, err)

	profiles.createErr = domain.ErrDuplicate
	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "Secreta1"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
}
