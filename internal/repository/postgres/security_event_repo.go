package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"coachflow-backend/internal/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgxpool"
)

// securityEventRepo reads the audit trail written by security.SecurityEventRepository.
type securityEventRepo struct {
	db *pgxpool.Pool
}

func NewSecurityEventRepository(db *pgxpool.Pool) domain.SecurityEventRepository {
	return &securityEventRepo{db: db}
}

func securityEventWhere(filter domain.SecurityEventFilter) []goqu.Expression {
	var where []goqu.Expression
	if filter.Since != nil {
		where = append(where, goqu.I("created_at").Gte(*filter.Since))
	}
	if len(filter.EventTypes) > 0 {
		where = append(where, goqu.I("event_type").In(filter.EventTypes))
	}
	if len(filter.Severities) > 0 {
		where = append(where, goqu.I("severity").In(filter.Severities))
	}
	if filter.SearchIP != "" {
		where = append(where, goqu.L("ip_address::text LIKE ?", filter.SearchIP+"%"))
	}
	if filter.Subject != "" {
		where = append(where, goqu.I("subject_value").ILike(containsPattern(filter.Subject)))
	}
	return where
}

func securityEventQueries(filter domain.SecurityEventFilter) (listSQL string, listArgs []any, countSQL string, countArgs []any, err error) {
	where := securityEventWhere(filter)

	countSQL, countArgs, err = dialect.From("security_events").
		Select(goqu.COUNT("*")).
		Where(where...).
		Prepared(true).ToSQL()
	if err != nil {
		return "", nil, "", nil, fmt.Errorf("failed to build event count query: %w", err)
	}

	listSQL, listArgs, err = dialect.From("security_events").
		Select(goqu.L(`id, created_at, event_type, severity,
			COALESCE(subject_type, ''), COALESCE(subject_value, ''),
			COALESCE(ip_address::text, ''), COALESCE(user_agent, ''),
			COALESCE(request_id, ''), COALESCE(details, 'null'::jsonb)`)).
		Where(where...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(uint(filter.Limit)).
		Offset(uint(filter.Offset)).
		Prepared(true).ToSQL()
	if err != nil {
		return "", nil, "", nil, fmt.Errorf("failed to build event list query: %w", err)
	}
	return listSQL, listArgs, countSQL, countArgs, nil
}

func (r *securityEventRepo) ListEvents(ctx context.Context, filter domain.SecurityEventFilter) ([]domain.SecurityEventView, int64, error) {
	listSQL, listArgs, countSQL, countArgs, err := securityEventQueries(filter)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []domain.SecurityEventView{}
	for rows.Next() {
		var e domain.SecurityEventView
		var details []byte
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &e.EventType, &e.Severity,
			&e.SubjectType, &e.SubjectValue, &e.IP, &e.UserAgent,
			&e.RequestID, &details,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, 0, fmt.Errorf("failed to decode event details: %w", err)
			}
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}
