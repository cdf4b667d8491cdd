package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/repository/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
)

func TestCommentFetchByPost(t *testing.T) {
	gdb, mock := newMockDB(t)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "post_id", "user_display_name", "content", "created_at"}).
		AddRow(1, 9, "ada", "first!", now.Add(-time.Minute)).
		AddRow(2, 9, "bob", "second", now)
	mock.ExpectQuery("SELECT \\* FROM `comments` WHERE post_id = \\? ORDER BY created_at ASC").
		WillReturnRows(rows)

	comments, err := db.NewCommentRepository(gdb).FetchByPost(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first!", comments[0].Content)
	assert.False(t, comments[0].Pending())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentFetchByPostEmpty(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `comments`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_display_name", "content", "created_at"}))

	comments, err := db.NewCommentRepository(gdb).FetchByPost(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.NotNil(t, comments)
}

func TestCommentStore(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO `comments`").
		WillReturnResult(sqlmock.NewResult(12, 1))

	c := &domain.Comment{PostID: 9, Author: "ada", Content: "nice"}
	require.NoError(t, db.NewCommentRepository(gdb).Store(context.Background(), c))
	assert.Equal(t, int64(12), c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
