package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/auth"
	"github.com/comanda-pos/comanda-backend/pkg/config"
	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	"github.com/comanda-pos/comanda-backend/pkg/enums"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

func testConfigs() (config.JWTConfig, config.PasswordConfig) {
	jwtCfg := config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret!",
		Issuer:            "comanda",
		ExpirationMinutes: 60,
	}
	passwordCfg := config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	return jwtCfg, passwordCfg
}

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:users_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	jwtCfg, passwordCfg := testConfigs()
	svc, err := NewService(db, jwtCfg, passwordCfg)
	require.NoError(t, err)
	return svc
}

func TestCreateAndLogin(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserInput{
		FirstName: "Maria",
		LastName:  "Perez",
		Username:  "mperez",
		Password:  "secreto123",
		Role:      enums.UserRoleWaiter,
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.PasswordHash)
	require.NotEqual(t, "secreto123", user.PasswordHash)

	result, err := svc.Login(ctx, "mperez", "secreto123")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	jwtCfg, _ := testConfigs()
	claims, err := auth.ParseAccessToken(jwtCfg, result.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, enums.UserRoleWaiter, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserInput{
		FirstName: "Luis",
		Username:  "luis",
		Password:  "secreto123",
		Role:      enums.UserRoleCashier,
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "luis", "wrong-password")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())

	_, err = svc.Login(ctx, "nobody", "secreto123")
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestCreateRejectsDuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	input := CreateUserInput{
		FirstName: "Ana",
		Username:  "ana",
		Password:  "secreto123",
		Role:      enums.UserRoleAdmin,
	}
	_, err := svc.Create(ctx, input)
	require.NoError(t, err)

	_, err = svc.Create(ctx, input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	cases := []CreateUserInput{
		{FirstName: "", Username: "x", Password: "secreto123", Role: enums.UserRoleAdmin},
		{FirstName: "X", Username: "", Password: "secreto123", Role: enums.UserRoleAdmin},
		{FirstName: "X", Username: "x", Password: "short", Role: enums.UserRoleAdmin},
		{FirstName: "X", Username: "x", Password: "secreto123", Role: "chef"},
	}
	for _, input := range cases {
		_, err := svc.Create(ctx, input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestUpdateChangesRoleAndPassword(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserInput{
		FirstName: "Rosa",
		Username:  "rosa",
		Password:  "secreto123",
		Role:      enums.UserRoleWaiter,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID, UpdateUserInput{
		FirstName: "Rosa",
		LastName:  "Diaz",
		Password:  "nuevosecreto",
		Role:      enums.UserRoleAdmin,
	})
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleAdmin, updated.Role)

	_, err = svc.Login(ctx, "rosa", "secreto123")
	require.Error(t, err)
	_, err = svc.Login(ctx, "rosa", "nuevosecreto")
	require.NoError(t, err)
}
