package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

const uniqueViolation = "23505"

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewDonationRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repository) Create(ctx context.Context, don *model.Donation) (uuid.UUID, error) {
	q := r.sb.
		Insert("donations").
		Columns(
			"amount", "currency", "method", "reference",
			"sender_name", "sender_email", "sender_phone",
			"slip_file_name", "slip_size", "status",
		).
		Values(
			don.Amount, don.Currency, don.Method, don.Reference,
			don.SenderName, don.SenderEmail, don.SenderPhone,
			don.SlipFileName, don.SlipSize, don.Status,
		).
		Suffix("RETURNING id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return uuid.Nil, err
	}

	var donationID uuid.UUID
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&donationID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return uuid.Nil, model.ErrDuplicateReference
		}
		return uuid.Nil, err
	}

	return donationID, nil
}

func (r *repository) DonationByID(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	q := r.sb.
		Select(
			"id", "amount", "currency", "method", "reference",
			"sender_name", "sender_email", "sender_phone",
			"slip_file_name", "slip_size", "status", "created_at",
		).
		From("donations").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var don model.Donation
	err = r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&don.ID,
		&don.Amount,
		&don.Currency,
		&don.Method,
		&don.Reference,
		&don.SenderName,
		&don.SenderEmail,
		&don.SenderPhone,
		&don.SlipFileName,
		&don.SlipSize,
		&don.Status,
		&don.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDonationNotFound
		}
		return nil, err
	}

	return &don, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.DonationStatus) error {
	if id == uuid.Nil {
		return errors.New("empty donation id")
	}
	if status == "" {
		return model.ErrUnknownStatus
	}

	q := r.sb.
		Update("donations").
		Set("status", status).
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrDonationNotFound
	}

	return nil
}
