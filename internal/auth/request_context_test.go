package auth

import (
	"context"
	"testing"

	"clubhouse/internal/constants"

	"github.com/stretchr/testify/assert"
)

func TestUserClaimsRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetUserClaims(ctx))

	claims := &SessionClaims{UserIDValue: 7, UsernameValue: "alice", RoleValue: constants.RoleAdmin, SessionIDVal: "s1"}
	ctx = SetUserClaims(ctx, claims)

	got := GetUserClaims(ctx)
	if assert.NotNil(t, got) {
		assert.Equal(t, uint(7), got.UserID())
		assert.Equal(t, "alice", got.Username())
		assert.True(t, got.IsAdmin())
		assert.Equal(t, "s1", got.SessionID())
	}
}

func TestCSRFTokenDefaultsEmpty(t *testing.T) {
	assert.Equal(t, "", GetCSRFToken(context.Background()))
	ctx := SetCSRFToken(context.Background(), "tok")
	assert.Equal(t, "tok", GetCSRFToken(ctx))
}
