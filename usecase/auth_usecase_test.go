package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepsakes/apperror"
	"keepsakes/config/common"
	"keepsakes/dto/req"
	"keepsakes/repository"
	"keepsakes/security"
	"keepsakes/testutil"
	"keepsakes/usecase"
)

const defaultImage = "https://res.cloudinary.com/demo/image/upload/v1/user_profiles/default.svg"

func newAuthUsecase(t *testing.T) (*usecase.AuthUsecaseImpl, *security.JWT) {
	t.Helper()
	v := viper.New()
	v.Set("JWT_SECRET", "auth-test-secret")
	v.Set("JWT_TTL", time.Hour.String())
	jwt := security.NewJWT(common.NewConfigFrom(v))

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	db := testutil.SetupTestDB(t)
	auth := usecase.NewAuthUsecase(repository.NewAuthRepository(), repository.NewUserRepository(),
		validator.New(validator.WithRequiredStructEnabled()), db, log, jwt, defaultImage)
	return auth, jwt
}

func TestRegisterAndLogin(t *testing.T) {
	auth, jwt := newAuthUsecase(t)
	ctx := context.Background()

	registered, err := auth.RegisterUser(ctx, &req.RegisterRequest{Name: "Jane Doe", Email: "Jane@Example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", registered.Slug)
	assert.Equal(t, "jane@example.com", registered.Email)

	second, err := auth.RegisterUser(ctx, &req.RegisterRequest{Name: "Jane Doe", Email: "jane2@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "jane-doe-1", second.Slug)

	login, err := auth.LoginUser(ctx, &req.LoginRequest{Email: "jane@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	userID, err := jwt.GetUserIdFromToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	auth, _ := newAuthUsecase(t)
	ctx := context.Background()
	request := &req.RegisterRequest{Name: "Sam", Email: "sam@example.com", Password: "password1"}

	_, err := auth.RegisterUser(ctx, request)
	require.NoError(t, err)
	_, err = auth.RegisterUser(ctx, request)
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	auth, _ := newAuthUsecase(t)
	ctx := context.Background()
	_, err := auth.RegisterUser(ctx, &req.RegisterRequest{Name: "Sam", Email: "sam@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = auth.LoginUser(ctx, &req.LoginRequest{Email: "sam@example.com", Password: "password2"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredential)

	_, err = auth.LoginUser(ctx, &req.LoginRequest{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredential)
}
