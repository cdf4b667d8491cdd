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

func TestMarketFetch(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `market_items` ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "image_url", "seller_email", "created_at"}).
			AddRow(1, "Keyboard", 49.5, "https://cdn/k.png", "ada@example.com", time.Now()))

	items, err := db.NewMarketRepository(gdb).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 49.5, items[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarketStore(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO `market_items`").
		WillReturnResult(sqlmock.NewResult(3, 1))

	item := &domain.MarketItem{Title: "Keyboard", Price: 49.5, SellerEmail: "ada@example.com"}
	require.NoError(t, db.NewMarketRepository(gdb).Store(context.Background(), item))
	assert.Equal(t, int64(3), item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
