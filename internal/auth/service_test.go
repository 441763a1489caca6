package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStaffStore struct {
	byEmail map[string]Staff
}

func (f *fakeStaffStore) GetStaffByEmail(_ context.Context, email string) (Staff, error) {
	s, ok := f.byEmail[email]
	if !ok {
		return Staff{}, ErrStaffNotFound
	}
	return s, nil
}

func (f *fakeStaffStore) GetStaffByID(_ context.Context, id string) (Staff, error) {
	for _, s := range f.byEmail {
		if s.ID == id {
			return s, nil
		}
	}
	return Staff{}, ErrStaffNotFound
}

func (f *fakeStaffStore) CreateStaff(_ context.Context, s Staff) (Staff, error) {
	f.byEmail[s.Email] = s
	return s, nil
}

func testAuthService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	hash, err := HashPassword("hunter2!")
	require.NoError(t, err)
	now := time.Date(2024, 5, 24, 10, 0, 0, 0, time.UTC)
	svc := &Service{
		Store: &fakeStaffStore{byEmail: map[string]Staff{
			"admin@example.com": {ID: "s1", Email: "admin@example.com", Name: "Admin", Role: RoleAdmin, PasswordHash: hash},
		}},
		Secret: []byte("test-secret-test-secret-test-1234"),
		Issuer: "backend-nirman",
		TTL:    time.Hour,
		Now:    func() time.Time { return now },
	}
	return svc, &now
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := testAuthService(t)
	token, staff, err := svc.Login(context.Background(), "admin@example.com", "hunter2!")
	require.NoError(t, err)
	require.Equal(t, "s1", staff.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "s1", claims.StaffID)
	require.Equal(t, "Admin", claims.Name)
	require.Equal(t, RoleAdmin, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := testAuthService(t)

	_, _, err := svc.Login(context.Background(), "admin@example.com", "wrong")
	require.Error(t, err)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter2!")
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc, now := testAuthService(t)
	token, _, err := svc.Login(context.Background(), "admin@example.com", "hunter2!")
	require.NoError(t, err)

	*now = now.Add(2 * time.Hour)
	_, err = svc.ParseToken(token)
	require.Error(t, err)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	svc, _ := testAuthService(t)
	token, _, err := svc.Login(context.Background(), "admin@example.com", "hunter2!")
	require.NoError(t, err)

	other := *svc
	other.Secret = []byte("another-secret-another-secret-42")
	_, err = other.ParseToken(token)
	require.Error(t, err)
}
