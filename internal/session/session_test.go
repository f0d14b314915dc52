package session

import (
	"testing"
	"time"

	"github.com/lekhyo/booking-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("test-secret-123", time.Hour)
	u := &models.User{ID: 42, Email: "manager@lekhyo.org", Role: models.RoleManager}

	token, issued, err := m.Issue(u)
	require.NoError(t, err)

	s, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), s.UserID)
	assert.Equal(t, "manager@lekhyo.org", s.Email)
	assert.Equal(t, issued.TokenID, s.TokenID)
	assert.True(t, s.CanManage())
}

func TestParse_WrongSecret(t *testing.T) {
	token, _, err := NewManager("secret-a", time.Hour).Issue(&models.User{ID: 1, Role: models.RoleGuest})
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	m := NewManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := m.Issue(&models.User{ID: 1, Role: models.RoleGuest})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	_, err := NewManager("secret", time.Hour).Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
