package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"vendocs/internal/model"
	"vendocs/internal/repository"
)

var userCols = []string{
	"id", "name", "email", "password_hash", "role", "company", "phone", "address",
	"is_active", "requires_login_approval", "assigned_consultant", "created_at", "updated_at",
}

func userRow(u *model.User) *sqlmock.Rows {
	consultant := sql.NullString{String: u.AssignedConsultantID, Valid: u.AssignedConsultantID != ""}
	return sqlmock.NewRows(userCols).AddRow(
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Company, u.Phone, u.Address,
		u.IsActive, u.RequiresLoginApproval, consultant, u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	u := &model.User{
		ID:           "user-uuid",
		Name:         "PT Maju Vendor",
		Email:        "vendor@example.com",
		PasswordHash: "hashed",
		Role:         model.RoleVendor,
		Company:      "PT Maju",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Company, u.Phone, u.Address,
			u.IsActive, u.RequiresLoginApproval, u.CreatedAt, u.UpdatedAt).
		WillReturnRows(userRow(u))

	result, err := repo.Create(ctx, u)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, u.Email, result.Email)
	assert.Empty(t, result.AssignedConsultantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now().UTC()
		u := &model.User{
			ID:                   "user-1",
			Name:                 "Consultant One",
			Email:                "consultant@example.com",
			Role:                 model.RoleConsultant,
			IsActive:             true,
			AssignedConsultantID: "",
			CreatedAt:            now,
			UpdatedAt:            now,
		}

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs(u.Email).
			WillReturnRows(userRow(u))

		result, err := repo.FindByEmail(ctx, u.Email)

		assert.NoError(t, err)
		assert.Equal(t, model.RoleConsultant, result.Role)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("missing@example.com").
			WillReturnError(sql.ErrNoRows)

		result, err := repo.FindByEmail(ctx, "missing@example.com")

		assert.Error(t, err)
		assert.Equal(t, sql.ErrNoRows, err)
		assert.Nil(t, result)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	u := &model.User{
		ID: "vendor-1", Name: "Vendor", Email: "v@example.com",
		Role: model.RoleVendor, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = ?`).
		WithArgs(model.RoleVendor).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery("SELECT (.+) FROM users WHERE role = (.+) ORDER BY created_at DESC").
		WithArgs(model.RoleVendor, 20, 0).
		WillReturnRows(userRow(u))

	result, err := repo.List(ctx,
		repository.UserFilter{Role: model.RoleVendor},
		repository.PageQuery{Limit: 20, Offset: 0},
	)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, "vendor-1", result.Items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_AssignConsultant(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("assigned", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET assigned_consultant").
			WithArgs("vendor-1", "consultant-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AssignConsultant(ctx, "vendor-1", "consultant-1")

		assert.NoError(t, err)
	})

	t.Run("vendor missing", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET assigned_consultant").
			WithArgs("missing", "consultant-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.AssignConsultant(ctx, "missing", "consultant-1")

		assert.Equal(t, sql.ErrNoRows, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_CountByRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"role", "count"}).
		AddRow("vendor", 12).
		AddRow("consultant", 3).
		AddRow("admin", 1)

	mock.ExpectQuery("SELECT role, COUNT").WillReturnRows(rows)

	counts, err := repo.CountByRole(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 12, counts[model.RoleVendor])
	assert.Equal(t, 3, counts[model.RoleConsultant])
	assert.Equal(t, 1, counts[model.RoleAdmin])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_NewUsersByDay(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	since := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"day", "role", "count"}).
		AddRow(since, "vendor", 2).
		AddRow(since.AddDate(0, 0, 1), "consultant", 1)

	mock.ExpectQuery("SELECT date_trunc").
		WithArgs(since).
		WillReturnRows(rows)

	activity, err := repo.NewUsersByDay(ctx, since)

	assert.NoError(t, err)
	assert.Len(t, activity, 2)
	assert.Equal(t, model.RoleVendor, activity[0].Role)
	assert.Equal(t, 2, activity[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
