package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/domain"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	companyID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, email, company_id, role, created_at, updated_at FROM users WHERE id = \$1`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "company_id", "role", "created_at", "updated_at"}).
			AddRow(userID.String(), "owner@acme.test", companyID.String(), "owner", now, now))

	user, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	require.True(t, user.HasCompany())
	assert.Equal(t, companyID, *user.CompanyID)
	assert.Equal(t, domain.UserRoleOwner, *user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NullCompany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	userID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "company_id", "role", "created_at", "updated_at"}).
			AddRow(userID.String(), "new@acme.test", nil, nil, now, now))

	user, err := repo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, user.HasCompany())
	assert.Nil(t, user.Role)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCompanyRepository_CreateWithOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	company := &domain.Company{ID: uuid.New(), Name: "Acme"}
	ownerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO companies`).
		WithArgs(company.ID, "Acme", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET company_id = \$1, role = \$2, updated_at = \$3 WHERE id = \$4 AND company_id IS NULL`).
		WithArgs(company.ID, "owner", sqlmock.AnyArg(), ownerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateWithOwner(context.Background(), company, ownerID))
	assert.False(t, company.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_CreateWithOwner_AlreadyAssigned(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	company := &domain.Company{ID: uuid.New(), Name: "Acme"}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO companies`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CreateWithOwner(context.Background(), company, uuid.New())
	assert.ErrorIs(t, err, repository.ErrAlreadyAssigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatbotRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatbotRepository(db)

	id := uuid.New()
	companyID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM chatbots WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name", "description", "type", "is_active", "created_at", "updated_at"}).
			AddRow(id.String(), companyID.String(), "Support", nil, "public", false, now, now))

	chatbot, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, companyID, chatbot.CompanyID)
	assert.Equal(t, domain.ChatbotTypePublic, chatbot.Type)
	assert.False(t, chatbot.IsActive)
	assert.Nil(t, chatbot.Description)
}

func TestChatbotRepository_ListByCompanyID_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatbotRepository(db)

	companyID := uuid.New()
	mock.ExpectQuery(`FROM chatbots WHERE company_id = \$1 ORDER BY created_at DESC`).
		WithArgs(companyID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name", "description", "type", "is_active", "created_at", "updated_at"}))

	chatbots, err := repo.ListByCompanyID(context.Background(), companyID)
	require.NoError(t, err)
	assert.NotNil(t, chatbots)
	assert.Empty(t, chatbots)
}

func TestChatbotRepository_CountByCompanyID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatbotRepository(db)

	companyID := uuid.New()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM chatbots WHERE company_id = \$1`).
		WithArgs(companyID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountByCompanyID(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAPIKeyRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAPIKeyRepository(db)

	key := &domain.APIKey{
		ID:        uuid.New(),
		ChatbotID: uuid.New(),
		KeyHash:   "hash",
		KeyPrefix: "cbk_abcd",
		IsActive:  true,
	}

	mock.ExpectExec(`INSERT INTO api_keys`).
		WithArgs(key.ID, key.ChatbotID, nil, "hash", "cbk_abcd", true, sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), key)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIKeyRepository_GetByHash(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAPIKeyRepository(db)

	keyID := uuid.New()
	chatbotID := uuid.New()
	companyID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`JOIN chatbots c ON c.id = k.chatbot_id WHERE k.key_hash = \$1`).
		WithArgs("digest").
		WillReturnRows(sqlmock.NewRows([]string{"id", "chatbot_id", "name", "key_hash", "key_prefix", "is_active", "created_at", "revoked_at", "company_id"}).
			AddRow(keyID.String(), chatbotID.String(), "prod", "digest", "cbk_abcd", true, now, nil, companyID.String()))

	key, err := repo.GetByHash(context.Background(), "digest")
	require.NoError(t, err)
	assert.Equal(t, keyID, key.ID)
	assert.Equal(t, chatbotID, key.ChatbotID)
	assert.Equal(t, companyID, key.CompanyID)
	require.NotNil(t, key.Name)
	assert.Equal(t, "prod", *key.Name)
	assert.Nil(t, key.RevokedAt)
}

func TestAPIKeyRepository_GetByHash_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAPIKeyRepository(db)

	mock.ExpectQuery(`WHERE k.key_hash = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByHash(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAPIKeyRepository_Deactivate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAPIKeyRepository(db)

	id := uuid.New()
	mock.ExpectExec(`UPDATE api_keys SET is_active = FALSE, revoked_at = COALESCE\(revoked_at, \$1\) WHERE id = \$2`).
		WithArgs(sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIKeyRepository_Deactivate_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAPIKeyRepository(db)

	mock.ExpectExec(`UPDATE api_keys`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAPIKeyRepository_CountByChatbotID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAPIKeyRepository(db)

	chatbotID := uuid.New()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM api_keys WHERE chatbot_id = \$1 AND is_active = \$2`).
		WithArgs(chatbotID, false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountByChatbotID(context.Background(), chatbotID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
