package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"
	"github.com/JGonCor/lottery-platform-sub001/domain/services"

	"github.com/jackc/pgx/v5/pgconn"
)

// AdminActionRepository implements pending timelock proposal storage. The
// primary key on kind enforces at most one pending proposal per kind.
type AdminActionRepository struct {
	q Queryable
}

func newAdminActionRepository(tx Queryable) interfaces.AdminActionRepository {
	return &AdminActionRepository{q: tx}
}

// NewAdminActionRepository creates an admin action repository over the given connection
func NewAdminActionRepository(q Queryable) interfaces.AdminActionRepository {
	return &AdminActionRepository{q: q}
}

// Create stores a proposal; ErrAlreadyPending if the kind has one
func (r *AdminActionRepository) Create(ctx context.Context, action *entities.PendingAdminAction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO admin_actions (kind, payload, proposed_at, proposed_by)
		VALUES ($1, $2, $3, $4)`,
		action.Kind, action.Payload, action.ProposedAt, action.ProposedBy)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return services.ErrAlreadyPending
		}
		return fmt.Errorf("failed to create admin action %s: %w", action.Kind, err)
	}
	return nil
}

// Get returns the pending proposal of a kind, nil if none
func (r *AdminActionRepository) Get(ctx context.Context, kind entities.AdminActionKind) (*entities.PendingAdminAction, error) {
	var action entities.PendingAdminAction
	err := r.q.QueryRow(ctx, `
		SELECT kind, payload, proposed_at, proposed_by
		FROM admin_actions
		WHERE kind = $1`, kind).Scan(
		&action.Kind,
		&action.Payload,
		&action.ProposedAt,
		&action.ProposedBy,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin action %s: %w", kind, err)
	}
	return &action, nil
}

// Delete removes the pending proposal of a kind
func (r *AdminActionRepository) Delete(ctx context.Context, kind entities.AdminActionKind) error {
	if _, err := r.q.Exec(ctx, "DELETE FROM admin_actions WHERE kind = $1", kind); err != nil {
		return fmt.Errorf("failed to delete admin action %s: %w", kind, err)
	}
	return nil
}
