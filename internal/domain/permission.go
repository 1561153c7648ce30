package domain

import "slices"

const (
	RoleClient = "client"
	RoleCoach  = "coach"
	RoleAdmin  = "admin"
)

// Capability is a permission checked at the HTTP boundary.
type Capability string

const (
	CapManageCoachProfile  Capability = "manage_coach_profile"
	CapManageClientProfile Capability = "manage_client_profile"
	CapManageSessions      Capability = "manage_sessions"
	CapViewCoachBookings   Capability = "view_coach_bookings"
	CapBookSessions        Capability = "book_sessions"
	CapWriteTestimonials   Capability = "write_testimonials"
	CapFollowCoaches       Capability = "follow_coaches"
	CapAdminAccounts       Capability = "admin_accounts"
)

var roleCapabilities = map[string][]Capability{
	RoleClient: {CapManageClientProfile, CapBookSessions, CapWriteTestimonials, CapFollowCoaches},
	RoleCoach:  {CapManageCoachProfile, CapManageSessions, CapViewCoachBookings, CapFollowCoaches},
	RoleAdmin:  {CapAdminAccounts},
}

// HasCapability reports whether any of the roles grants c.
func HasCapability(roles []string, c Capability) bool {
	for _, r := range roles {
		if slices.Contains(roleCapabilities[r], c) {
			return true
		}
	}
	return false
}

func IsKnownRole(role string) bool {
	_, ok := roleCapabilities[role]
	return ok
}

// IsSelfServiceRole reports whether users may give themselves the role.
func IsSelfServiceRole(role string) bool {
	return role == RoleClient || role == RoleCoach
}
