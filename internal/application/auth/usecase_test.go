package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wic-assist-api/internal/application/auth"
	"github.com/jhoicas/wic-assist-api/internal/application/dto"
	"github.com/jhoicas/wic-assist-api/internal/domain"
	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
)

type fakeUserRepo struct {
	users   map[string]*entity.User // por email
	findErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.users[email], nil
}

func testJWTConfig() auth.JWTConfig {
	return auth.JWTConfig{Secret: "secreto-de-prueba", ExpMinutes: 60, Issuer: "wic-assist-test"}
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTConfig())
	ctx := context.Background()

	in := dto.RegisterRequest{Email: "participante@example.com", Password: "secreto-123", Name: "Ana"}
	out, err := uc.RegisterUser(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "active", out.Status)

	_, err = uc.RegisterUser(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_ErrorDeRepositorio(t *testing.T) {
	repo := newFakeUserRepo()
	repo.findErr = errors.New("store no disponible")
	uc := auth.NewAuthUseCase(repo, testJWTConfig())

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email:    "participante@example.com",
		Password: "secreto-123",
	})
	assert.ErrorIs(t, err, repo.findErr, "la falla del repositorio se propaga, no se trata como email libre")
	assert.Empty(t, repo.users, "no se crea el usuario cuando la búsqueda falla")
}

func TestLogin_CredencialesYEstado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTConfig())
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "participante@example.com", Password: "secreto-123"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "participante@example.com", Password: "secreto-123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "participante@example.com", out.User.Email)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "participante@example.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "secreto-123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	repo.users["participante@example.com"].Status = "disabled"
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "participante@example.com", Password: "secreto-123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un usuario inactivo no puede iniciar sesión")
}
