package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCapability(t *testing.T) {
	assert.True(t, HasCapability([]string{RoleClient}, CapWriteTestimonials))
	assert.True(t, HasCapability([]string{RoleClient}, CapBookSessions))
	assert.False(t, HasCapability([]string{RoleClient}, CapManageSessions))

	assert.True(t, HasCapability([]string{RoleCoach}, CapManageSessions))
	assert.False(t, HasCapability([]string{RoleCoach}, CapWriteTestimonials))

	assert.True(t, HasCapability([]string{RoleClient, RoleCoach}, CapManageCoachProfile))
	assert.True(t, HasCapability([]string{RoleAdmin}, CapAdminAccounts))
	assert.False(t, HasCapability([]string{RoleCoach}, CapAdminAccounts))

	assert.False(t, HasCapability(nil, CapFollowCoaches))
	assert.False(t, HasCapability([]string{"superuser"}, CapFollowCoaches))
}

func TestRoles(t *testing.T) {
	assert.True(t, IsKnownRole(RoleAdmin))
	assert.False(t, IsKnownRole("guest"))
	assert.True(t, IsSelfServiceRole(RoleCoach))
	assert.False(t, IsSelfServiceRole(RoleAdmin))
}
