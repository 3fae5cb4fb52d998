package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Public_DropsSecrets(t *testing.T) {
	u := &User{
		ID:           "u1",
		UserName:     "ada",
		Email:        "ada@example.com",
		PasswordHash: []byte("$2a$10$hash"),
		RefreshToken: "refresh-value",
		AvatarKey:    "avatars/k",
	}

	b, err := json.Marshal(u.Public())
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, `"username":"ada"`)
	assert.NotContains(t, out, "hash")
	assert.NotContains(t, out, "refresh-value")
	assert.NotContains(t, out, "avatars/k")
}
