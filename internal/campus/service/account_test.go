package service

import (
	"context"
	"testing"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &AccountService{Store: st}

	account, err := svc.Register(ctx, RegisterInput{
		Name:       "Sam Rivera",
		Email:      "Sam@Campus.edu",
		Password:   "correct horse battery",
		Department: "Mechatronics",
		Year:       2,
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleStudent, account.Role)
	require.Equal(t, "sam@campus.edu", account.Email, "emails are normalized")
	require.NotEqual(t, "correct horse battery", account.PasswordHash)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Name:     "Imposter",
			Email:    "sam@campus.edu",
			Password: "whatever else",
		})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("login round-trips", func(t *testing.T) {
		got, err := svc.Login(ctx, "SAM@campus.edu", "correct horse battery")
		require.NoError(t, err)
		require.Equal(t, account.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "sam@campus.edu", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email looks like wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@campus.edu", "anything")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &AccountService{Store: st}

	first := seedAccount(t, st, "Sam", "sam@campus.edu", domain.RoleStudent)
	seedAccount(t, st, "Mia", "mia@campus.edu", domain.RoleStudent)

	t.Run("profile fields update", func(t *testing.T) {
		got, err := svc.UpdateProfile(ctx, asActor(first), UpdateProfileInput{
			Name:       "Sam R.",
			Email:      "sam@campus.edu",
			Phone:      "555-0100",
			Department: "Mechatronics",
			Year:       3,
		})
		require.NoError(t, err)
		require.Equal(t, "Sam R.", got.Name)
		require.Equal(t, 3, got.Year)
	})

	t.Run("email change onto a taken address conflicts", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, asActor(first), UpdateProfileInput{
			Name:  "Sam R.",
			Email: "mia@campus.edu",
		})
		require.ErrorIs(t, err, ErrEmailTaken)
	})
}
