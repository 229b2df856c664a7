package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"spaces-community-backend/internal/apperr"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestListScheduledSpaces_Ordered(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	earlier := time.Now().Add(1 * time.Hour).UTC()
	later := time.Now().Add(3 * time.Hour).UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "scheduled_spaces" ORDER BY scheduled_for ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "scheduled_for", "guest_speaker", "description", "created_at", "created_by"}).
			AddRow("space_1", "First", earlier, "", "about first", time.Now(), "admin").
			AddRow("space_2", "Second", later, "@guest", "about second", time.Now(), "admin"))

	spaces, err := s.ListScheduledSpaces(context.Background())
	require.NoError(t, err)
	require.Len(t, spaces, 2)
	assert.Equal(t, "space_1", spaces[0].ID)
	assert.Equal(t, "space_2", spaces[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetScheduledSpace_NotFound(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "scheduled_spaces" WHERE id = \$1`).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetScheduledSpace(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDueReminders_WindowQuery(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "space_reminders" WHERE reminder_sent = \$1 AND scheduled_for <= \$2 ORDER BY scheduled_for ASC`).
		WithArgs(false, now.Add(30*time.Minute)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "space_id", "user_id", "email", "title", "guest_speaker", "description", "scheduled_for", "reminder_sent", "created_at"}).
			AddRow("rem-1", "space_1", "user-1", "a@example.com", "First", "", "", now.Add(20*time.Minute), false, now))

	reminders, err := s.DueReminders(context.Background(), now, 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "rem-1", reminders[0].ID)
	assert.False(t, reminders[0].ReminderSent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReminderSent_GuardsOnCurrentValue(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "space_reminders" SET "reminder_sent"=\$1 WHERE id = \$2 AND reminder_sent = \$3`).
		WithArgs(true, "rem-1", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.MarkReminderSent(context.Background(), "rem-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
