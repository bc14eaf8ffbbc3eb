package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRoleCode(t *testing.T) {
	assert.Equal(t, "ADMIN", NormalizeRoleCode(" admin "))
	assert.Equal(t, "SUPPORT_AGENT", NormalizeRoleCode("support_agent"))
}

func TestValidRoleCode(t *testing.T) {
	assert.True(t, ValidRoleCode("ADMIN"))
	assert.True(t, ValidRoleCode("SUPPORT_AGENT"))
	assert.False(t, ValidRoleCode("ADMIN-1"))
	assert.False(t, ValidRoleCode("admin"))
	assert.False(t, ValidRoleCode(""))
}

func TestNormalizePermissions(t *testing.T) {
	got := NormalizePermissions([]string{"user_read", " USER_READ ", "", "user_delete"})
	assert.Equal(t, []string{"USER_READ", "USER_DELETE"}, got)
}
