package group

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewRepository(db), mock
}

func TestRepository_RemoveMember(t *testing.T) {
	deleteMember := regexp.QuoteMeta("DELETE FROM group_members WHERE group_id = $1 AND user_id = $2")
	deleteSettings := regexp.QuoteMeta("DELETE FROM notification_settings WHERE group_id = $1 AND user_id = $2")

	t.Run("removes membership and its settings", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		groupID, userID := uuid.New(), uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(deleteMember).
			WithArgs(groupID.String(), userID.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(deleteSettings).
			WithArgs(groupID.String(), userID.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.RemoveMember(context.Background(), groupID, userID))
	})

	t.Run("not a member", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(deleteMember).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.RemoveMember(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("settings delete fails", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(deleteMember).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(deleteSettings).WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		err := repo.RemoveMember(context.Background(), uuid.New(), uuid.New())
		require.Error(t, err)
		assert.NotErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestService_Leave_MapsMissingMembership(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM group_members")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := NewService(repo).Leave(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
