package services

import (
	"context"
	"testing"

	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUp(t *testing.T) {
	f := &fakeAPI{}
	s := NewAccountService(f, &recordingInvalidator{})
	ctx := context.Background()

	err := s.SignUp(ctx, models.SignUpInput{Email: "not-an-email", Password: "password1", Name: "kim"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, s.SignUp(ctx, models.SignUpInput{Email: " Kim@Example.com ", Password: "password1", Name: "kim"}))
	assert.Equal(t, []string{"CheckEmail", "SignUp"}, f.Calls())

	f.emailTaken = true
	err = s.SignUp(ctx, models.SignUpInput{Email: "kim@example.com", Password: "password1", Name: "kim"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": 3}).SignedString([]byte("k"))
	require.NoError(t, err)

	s := NewAccountService(&fakeAPI{loginToken: token}, &recordingInvalidator{})
	sess, err := s.Login(context.Background(), models.LoginInput{Username: "kim@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), sess.ViewerID)
	assert.Equal(t, token, sess.Token)

	s = NewAccountService(&fakeAPI{loginToken: "opaque"}, &recordingInvalidator{})
	_, err = s.Login(context.Background(), models.LoginInput{Username: "kim@example.com", Password: "pw"})
	assert.Error(t, err)
}

func TestUpdateProfileOwnerOnly(t *testing.T) {
	f := &fakeAPI{}
	c := newTestCache(t)
	inv := &recordingInvalidator{next: c}
	s := NewUserService(f, c, inv)
	ctx := context.Background()

	_, err := s.UpdateProfile(ctx, auth.Session{Token: "t", ViewerID: 2}, 1, models.ProfilePatch{Name: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	p, err := s.UpdateProfile(ctx, auth.Session{Token: "t", ViewerID: 1}, 1, models.ProfilePatch{Name: " lee "})
	require.NoError(t, err)
	assert.Equal(t, "lee", p.Name)
	assert.Contains(t, inv.Calls(), invalidation{Topic: cache.TopicUserProfile, ID: 1})
}

func TestWithdraw(t *testing.T) {
	f := &fakeAPI{}
	s := NewAccountService(f, &recordingInvalidator{})
	assert.ErrorIs(t, s.Withdraw(context.Background(), auth.Session{}), ErrNotAuthenticated)
	require.NoError(t, s.Withdraw(context.Background(), auth.Session{Token: "t", ViewerID: 1}))
	assert.Equal(t, []string{"DeleteUser"}, f.Calls())
}
