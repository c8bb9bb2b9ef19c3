package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := Generate("secret", "user-1", "tenant-1", "admin", "gestor-api", 5)
	require.NoError(t, err)

	id, err := Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "user-1", TenantID: "tenant-1", Role: "admin"}, id)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := Generate("secret", "user-1", "tenant-1", "admin", "gestor-api", 5)
	require.NoError(t, err)

	_, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := Generate("secret", "user-1", "tenant-1", "admin", "gestor-api", -1)
	require.NoError(t, err)

	_, err = Parse("secret", token)
	assert.Error(t, err)
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := Generate("", "user-1", "tenant-1", "admin", "gestor-api", 5)
	assert.Error(t, err)
}
