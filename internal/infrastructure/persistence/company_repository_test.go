package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCompanyRepository_FindByName(t *testing.T) {
	t.Run("matches case-insensitively", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCompanyRepository(gormDB, CompanyDeleteRestrict)

		companyID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "currency_code", "is_active", "version"}).
			AddRow(companyID, "Mama Cass Kitchens", "NGN", true, 1)

		mock.ExpectQuery(`SELECT \* FROM "companies" WHERE LOWER\(name\) = \$1`).
			WithArgs("mama cass kitchens", 1).
			WillReturnRows(rows)

		company, err := repo.FindByName(context.Background(), "  Mama Cass Kitchens ")
		require.NoError(t, err)
		assert.Equal(t, companyID, company.ID)
	})
}

func TestGormCompanyRepository_Delete(t *testing.T) {
	t.Run("restrict policy rejects while outlets exist", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCompanyRepository(gormDB, CompanyDeleteRestrict)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "outlets" WHERE company_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		err := repo.Delete(context.Background(), uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvariantViolation)
	})

	t.Run("restrict policy deletes a childless company", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCompanyRepository(gormDB, CompanyDeleteRestrict)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "outlets" WHERE company_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "staff" WHERE company_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM "companies" WHERE id = \$1`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), uuid.New()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for a missing company", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCompanyRepository(gormDB, CompanyDeleteRestrict)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "outlets" WHERE company_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "staff" WHERE company_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM "companies" WHERE id = \$1`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
