package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticketflow/ticketflow/internal/domain"
)

// TicketFilter restricts ticket listings. A nil CreatedByID returns every
// ticket; a set one scopes the query to that creator.
type TicketFilter struct {
	CreatedByID *string
}

// TicketRepository encapsulates ticket persistence. The *WithComment
// methods run the ticket write and the optional comment insert in a single
// transaction so partial application is never observable.
type TicketRepository interface {
	CreateWithComment(ctx context.Context, ticket *domain.Ticket, comment *domain.Comment) error
	UpdateWithComment(ctx context.Context, ticket *domain.Ticket, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListSummaries(ctx context.Context, filter TicketFilter) ([]domain.TicketSummary, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const insertCommentSQL = `
        INSERT INTO comments (ticket_id, user_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

func (r *ticketRepository) CreateWithComment(ctx context.Context, ticket *domain.Ticket, comment *domain.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO tickets (title, description, status, priority, category_id, created_by, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CategoryID,
		ticket.CreatedByID,
		ticket.AssignedToID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	if comment != nil {
		comment.TicketID = ticket.ID
		if err := tx.QueryRow(ctx, insertCommentSQL,
			comment.TicketID,
			comment.UserID,
			comment.Content,
		).Scan(&comment.ID, &comment.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) UpdateWithComment(ctx context.Context, ticket *domain.Ticket, comment *domain.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE tickets SET status=$1, priority=$2, assigned_to=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedToID,
		ticket.ID,
	).Scan(&ticket.UpdatedAt); err != nil {
		return err
	}

	if comment != nil {
		comment.TicketID = ticket.ID
		if err := tx.QueryRow(ctx, insertCommentSQL,
			comment.TicketID,
			comment.UserID,
			comment.Content,
		).Scan(&comment.ID, &comment.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT t.id, t.title, t.description, t.status, t.priority,
               t.category_id, c.name,
               t.created_by, cu.username,
               t.assigned_to, au.username,
               t.created_at, t.updated_at
        FROM tickets t
        JOIN categories c ON c.id = t.category_id
        JOIN users cu ON cu.id = t.created_by
        LEFT JOIN users au ON au.id = t.assigned_to
        WHERE t.id=$1`

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CategoryID,
		&ticket.CategoryName,
		&ticket.CreatedByID,
		&ticket.CreatedByUsername,
		&ticket.AssignedToID,
		&ticket.AssignedToUsername,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListSummaries(ctx context.Context, filter TicketFilter) ([]domain.TicketSummary, error) {
	query := `
        SELECT t.id, t.title, t.status, t.priority,
               c.name, cu.username, au.username,
               (SELECT COUNT(*) FROM comments cm WHERE cm.ticket_id = t.id),
               t.created_at, t.updated_at
        FROM tickets t
        JOIN categories c ON c.id = t.category_id
        JOIN users cu ON cu.id = t.created_by
        LEFT JOIN users au ON au.id = t.assigned_to`

	args := []any{}
	if filter.CreatedByID != nil {
		query += ` WHERE t.created_by=$1`
		args = append(args, *filter.CreatedByID)
	}
	query += ` ORDER BY t.updated_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketSummary
	for rows.Next() {
		var summary domain.TicketSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.Status,
			&summary.Priority,
			&summary.CategoryName,
			&summary.CreatedByUsername,
			&summary.AssignedToUsername,
			&summary.CommentCount,
			&summary.CreatedAt,
			&summary.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}

// Delete removes a ticket; comments cascade at the schema level.
func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
