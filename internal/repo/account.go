package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// AccountRepo reads login accounts and the client/personnel records linked to
// them, and registers new ones.
type AccountRepo interface {
	// GetByEmail returns the account with the given email (case-insensitive).
	// Returns domain.ErrNotFound if no such account exists.
	GetByEmail(ctx context.Context, email string) (domain.Account, error)

	// GetClientByAccountID returns the client linked to accountID.
	GetClientByAccountID(ctx context.Context, accountID int64) (domain.Client, error)

	// GetPersonnelByAccountID returns the personnel linked to accountID.
	GetPersonnelByAccountID(ctx context.Context, accountID int64) (domain.Personnel, error)

	// RegisterClient inserts an account and its client row in one transaction.
	// A duplicate email yields domain.ErrConflict and leaves nothing behind.
	RegisterClient(ctx context.Context, a domain.Account, c domain.Client) (domain.Account, domain.Client, error)

	// RegisterPersonnel inserts an account and its personnel row in one transaction.
	RegisterPersonnel(ctx context.Context, a domain.Account, p domain.Personnel) (domain.Account, domain.Personnel, error)
}

type pgAccountRepo struct {
	db db
}

// NewAccountRepo constructs an AccountRepo backed by the provided db connection.
func NewAccountRepo(db db) AccountRepo {
	return &pgAccountRepo{db: db}
}

func (r *pgAccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	const q = `
		SELECT id, email, password_hash, role, created_at
		FROM accounts
		WHERE lower(email) = lower(@email)`

	var (
		a    domain.Account
		role string
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &role, &a.CreatedAt)
	if err != nil {
		return domain.Account{}, fmt.Errorf("repo.AccountRepo.GetByEmail: %w", noRows(err))
	}
	a.Role = domain.Role(role)
	return a, nil
}

func (r *pgAccountRepo) GetClientByAccountID(ctx context.Context, accountID int64) (domain.Client, error) {
	const q = `SELECT id, account_id, full_name, phone FROM clients WHERE account_id = @account_id`

	c, err := scanClient(r.db.QueryRow(ctx, q, pgx.NamedArgs{"account_id": accountID}))
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.AccountRepo.GetClientByAccountID: %w", err)
	}
	return c, nil
}

func (r *pgAccountRepo) GetPersonnelByAccountID(ctx context.Context, accountID int64) (domain.Personnel, error) {
	const q = `SELECT id, account_id, full_name FROM personnel WHERE account_id = @account_id`

	p, err := scanPersonnel(r.db.QueryRow(ctx, q, pgx.NamedArgs{"account_id": accountID}))
	if err != nil {
		return domain.Personnel{}, fmt.Errorf("repo.AccountRepo.GetPersonnelByAccountID: %w", err)
	}
	return p, nil
}

func (r *pgAccountRepo) RegisterClient(ctx context.Context, a domain.Account, c domain.Client) (domain.Account, domain.Client, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		if a, err = insertAccount(ctx, tx, a); err != nil {
			return err
		}
		c.AccountID = a.ID
		c, err = insertClient(ctx, tx, c)
		return err
	})
	if err != nil {
		return domain.Account{}, domain.Client{}, fmt.Errorf("repo.AccountRepo.RegisterClient: %w", err)
	}
	return a, c, nil
}

func (r *pgAccountRepo) RegisterPersonnel(ctx context.Context, a domain.Account, p domain.Personnel) (domain.Account, domain.Personnel, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		if a, err = insertAccount(ctx, tx, a); err != nil {
			return err
		}
		p.AccountID = a.ID
		p, err = insertPersonnel(ctx, tx, p)
		return err
	})
	if err != nil {
		return domain.Account{}, domain.Personnel{}, fmt.Errorf("repo.AccountRepo.RegisterPersonnel: %w", err)
	}
	return a, p, nil
}

func insertAccount(ctx context.Context, d db, a domain.Account) (domain.Account, error) {
	const q = `
		INSERT INTO accounts (email, password_hash, role)
		VALUES (@email, @password_hash, @role)
		RETURNING id, created_at`

	args := pgx.NamedArgs{"email": a.Email, "password_hash": a.PasswordHash, "role": string(a.Role)}
	if err := d.QueryRow(ctx, q, args).Scan(&a.ID, &a.CreatedAt); err != nil {
		return domain.Account{}, fmt.Errorf("insert account: %w", mapWriteErr(err))
	}
	return a, nil
}

func insertClient(ctx context.Context, d db, c domain.Client) (domain.Client, error) {
	const q = `
		INSERT INTO clients (account_id, full_name, phone)
		VALUES (@account_id, @full_name, @phone)
		RETURNING id, account_id, full_name, phone`

	args := pgx.NamedArgs{"account_id": c.AccountID, "full_name": c.FullName, "phone": c.Phone}
	out, err := scanClient(d.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Client{}, fmt.Errorf("insert client: %w", mapWriteErr(err))
	}
	return out, nil
}

func insertPersonnel(ctx context.Context, d db, p domain.Personnel) (domain.Personnel, error) {
	const q = `
		INSERT INTO personnel (account_id, full_name)
		VALUES (@account_id, @full_name)
		RETURNING id, account_id, full_name`

	args := pgx.NamedArgs{"account_id": p.AccountID, "full_name": p.FullName}
	out, err := scanPersonnel(d.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Personnel{}, fmt.Errorf("insert personnel: %w", mapWriteErr(err))
	}
	return out, nil
}

func scanClient(s scanner) (domain.Client, error) {
	var c domain.Client
	if err := s.Scan(&c.ID, &c.AccountID, &c.FullName, &c.Phone); err != nil {
		return domain.Client{}, noRows(err)
	}
	return c, nil
}

func scanPersonnel(s scanner) (domain.Personnel, error) {
	var p domain.Personnel
	if err := s.Scan(&p.ID, &p.AccountID, &p.FullName); err != nil {
		return domain.Personnel{}, noRows(err)
	}
	return p, nil
}
