package postgres

import (
	"testing"

	"coachflow-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoachSearchQueryMatchesNamesOfCoachesOnly(t *testing.T) {
	query, args, err := coachSearchQuery(domain.CoachFilter{Search: "Emi"})
	require.NoError(t, err)

	assert.Contains(t, query, `"a"."first_name" ILIKE`)
	assert.Contains(t, query, `"a"."last_name" ILIKE`)
	assert.Contains(t, query, "= ANY(a.roles)")
	assert.NotContains(t, query, "email")
	assert.Contains(t, args, domain.RoleCoach)
	assert.Contains(t, args, "%Emi%")
}

func TestCoachSearchQueryWithoutTerm(t *testing.T) {
	query, args, err := coachSearchQuery(domain.CoachFilter{})
	require.NoError(t, err)

	assert.NotContains(t, query, "ILIKE")
	assert.Equal(t, []any{domain.RoleCoach}, args)
}

func TestCoachSearchQuerySpecialty(t *testing.T) {
	query, args, err := coachSearchQuery(domain.CoachFilter{Specialty: "career"})
	require.NoError(t, err)

	assert.Contains(t, query, "ILIKE ANY(cp.specialties)")
	assert.Contains(t, args, "career")
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%emi%`, containsPattern("  emi "))
	assert.Equal(t, `%50\%\_off\\%`, containsPattern(`50%_off\`))
}

func TestSecurityEventQueries(t *testing.T) {
	listSQL, listArgs, countSQL, countArgs, err := securityEventQueries(domain.SecurityEventFilter{
		Severities: []string{"HIGH"},
		SearchIP:   "10.0.",
		Limit:      20,
		Offset:     40,
	})
	require.NoError(t, err)

	assert.Contains(t, countSQL, "COUNT(*)")
	assert.Contains(t, listSQL, `"severity" IN (`)
	assert.Contains(t, listSQL, "ip_address::text LIKE")
	assert.Contains(t, listSQL, `ORDER BY "created_at" DESC`)
	assert.Contains(t, listSQL, "LIMIT")
	assert.Contains(t, listArgs, "10.0.%")
	assert.Equal(t, countArgs, listArgs[:len(countArgs)])
}

func TestBookingCapacityQueriesLockTheSession(t *testing.T) {
	assert.Contains(t, lockSessionSeats, "FOR UPDATE")
	assert.Contains(t, lockSessionSeats, "FROM sessions")
	assert.Contains(t, countSessionSeats, "session_id = $1")
	assert.Contains(t, countSessionSeats, "ANY($2)")
}
