package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticketflow/ticketflow/internal/domain"
)

// CommentRepository manages append-only ticket comments. Comments are never
// updated or deleted individually; they disappear with their ticket.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

// Create appends a comment without touching the parent ticket row, so the
// ticket's updated_at is not advanced by commenting alone.
func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.pool.QueryRow(ctx, insertCommentSQL,
		comment.TicketID,
		comment.UserID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	const query = `
        SELECT cm.id, cm.ticket_id, cm.user_id, u.username, u.role, cm.content, cm.created_at
        FROM comments cm
        JOIN users u ON u.id = cm.user_id
        WHERE cm.ticket_id=$1
        ORDER BY cm.created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.UserID,
			&comment.Username,
			&comment.UserRole,
			&comment.Content,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
