package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, want := range []Role{RoleAdmin, RoleProjectManager, RoleTeamMember} {
		got, err := ParseRole(string(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	for _, s := range []string{"", "admin", "Manager", "ADMIN", "SuperUser", "projectmanager"} {
		_, err := ParseRole(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleProjectManager.Valid())
	assert.True(t, RoleTeamMember.Valid())
	assert.False(t, Role("Guest").Valid())
	assert.False(t, Role("").Valid())
}

func TestIsElevated(t *testing.T) {
	assert.True(t, IsElevated(RoleAdmin))
	assert.True(t, IsElevated(RoleProjectManager))
	assert.False(t, IsElevated(RoleTeamMember))
}
