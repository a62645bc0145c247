package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provadapt/provadapt-backend/internal/repos"
	"github.com/provadapt/provadapt-backend/internal/repos/testutil"
	"github.com/provadapt/provadapt-backend/internal/services"
)

func newAuthService(t *testing.T) services.AuthService {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger(t)
	return services.NewAuthService(db, log, repos.NewUserRepo(db, log))
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "Professora Ana", "ana@escola.example", "segredo-forte")
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "ana@escola.example", registered.User.Email)

	logged, err := auth.Login(ctx, "ANA@escola.example", "segredo-forte")
	require.NoError(t, err)

	rd, err := auth.ParseToken(logged.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, rd.UserID)
	assert.Equal(t, "ana@escola.example", rd.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "Ana", "ana@escola.example", "segredo-forte")
	require.NoError(t, err)
	_, err = auth.Register(ctx, "Outra Ana", "ana@escola.example", "outro-segredo")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "Ana", "ana@escola.example", "segredo-forte")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "ana@escola.example", "senha-errada")
	assert.ErrorIs(t, err, services.ErrInvalidLogin)
	_, err = auth.Login(ctx, "ninguem@escola.example", "segredo-forte")
	assert.ErrorIs(t, err, services.ErrInvalidLogin)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth := newAuthService(t)
	_, err := auth.ParseToken("not-a-token")
	assert.ErrorIs(t, err, services.ErrInvalidLogin)
}

func TestRegisterValidatesInput(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "", "ana@escola.example", "segredo-forte")
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = auth.Register(ctx, "Ana", "ana@escola.example", "curta")
	assert.ErrorIs(t, err, services.ErrValidation)
}
