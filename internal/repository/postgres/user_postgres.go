package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"vendocs/internal/model"
	"vendocs/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, name, email, password_hash, role, company, phone, address,
	is_active, requires_login_approval, assigned_consultant, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u          model.User
		consultant sql.NullString
	)
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Company,
		&u.Phone,
		&u.Address,
		&u.IsActive,
		&u.RequiresLoginApproval,
		&consultant,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.AssignedConsultantID = consultant.String
	return &u, nil
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, name, email, password_hash, role, company, phone, address,
			is_active, requires_login_approval, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.Company,
		u.Phone,
		u.Address,
		u.IsActive,
		u.RequiresLoginApproval,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return scanUser(row)
}

// FindByID fetches a single user by its ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a single user by its unique email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// List returns users matching the filter using LIMIT/OFFSET pagination and a
// total count.
func (r *UserPostgres) List(ctx context.Context, f repository.UserFilter, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	where, args := buildUserWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + userColumns + ` FROM users` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pq.Limit, pq.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.User]{Items: items, Total: total}, nil
}

func buildUserWhere(f repository.UserFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Role != "" {
		args = append(args, f.Role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)", n, n, n))
	}
	if f.AssignedConsultantID != "" {
		args = append(args, f.AssignedConsultantID)
		conds = append(conds, fmt.Sprintf("assigned_consultant = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Update rewrites the mutable profile fields and returns the stored record.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		UPDATE users
		SET name = $2, email = $3, role = $4, company = $5, phone = $6, address = $7,
			is_active = $8, requires_login_approval = $9, updated_at = $10
		WHERE id = $1
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Name,
		u.Email,
		u.Role,
		u.Company,
		u.Phone,
		u.Address,
		u.IsActive,
		u.RequiresLoginApproval,
		time.Now().UTC(),
	)
	return scanUser(row)
}

// Delete removes a user by ID. It does not return an error if the row does not exist.
func (r *UserPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM users WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// AssignConsultant sets a vendor's assigned consultant reference.
func (r *UserPostgres) AssignConsultant(ctx context.Context, vendorID, consultantID string) error {
	const q = `UPDATE users SET assigned_consultant = $2, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, vendorID, consultantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetActive toggles the is_active flag on a user.
func (r *UserPostgres) SetActive(ctx context.Context, id string, active bool) error {
	const q = `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, active)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByRole returns user totals grouped by role.
func (r *UserPostgres) CountByRole(ctx context.Context) (map[model.Role]int, error) {
	const q = `SELECT role, COUNT(*) FROM users GROUP BY role`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.Role]int)
	for rows.Next() {
		var (
			role  model.Role
			count int
		)
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		out[role] = count
	}
	return out, rows.Err()
}

// CountActive returns the number of active users.
func (r *UserPostgres) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_active`).Scan(&n)
	return n, err
}

// CountPendingLoginApprovals returns vendors awaiting login approval.
func (r *UserPostgres) CountPendingLoginApprovals(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'vendor' AND requires_login_approval`).Scan(&n)
	return n, err
}

// CountVendorsByConsultant returns assigned-vendor totals per consultant.
func (r *UserPostgres) CountVendorsByConsultant(ctx context.Context) (map[string]int, error) {
	const q = `
		SELECT assigned_consultant, COUNT(*)
		FROM users
		WHERE role = 'vendor' AND assigned_consultant IS NOT NULL
		GROUP BY assigned_consultant
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			id    string
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		out[id] = count
	}
	return out, rows.Err()
}

// NewUsersByDay returns per-day, per-role counts of users created since the
// given time, ordered by day.
func (r *UserPostgres) NewUsersByDay(ctx context.Context, since time.Time) ([]repository.UserActivityRow, error) {
	const q = `
		SELECT date_trunc('day', created_at) AS day, role, COUNT(*)
		FROM users
		WHERE created_at >= $1
		GROUP BY day, role
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.UserActivityRow, 0)
	for rows.Next() {
		var row repository.UserActivityRow
		if err := rows.Scan(&row.Day, &row.Role, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
