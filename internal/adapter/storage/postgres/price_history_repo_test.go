package postgres

import (
	"context"
	"testing"
	"time"

	"qr-settlement-gateway/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyColumns() []string {
	return []string{"asset", "base", "price", "buy", "sell", "bid", "ask", "source", "observed_at"}
}

func TestPriceHistoryRepo_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPriceHistoryRepo(mock)
	q := domain.Quote{
		Asset:     "USDT",
		Base:      "ARS",
		Price:     1051.3,
		Buy:       1051.3,
		Sell:      1060.2,
		Source:    domain.SourceCriptoYa,
		Timestamp: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO price_history").
		WithArgs(q.Asset, q.Base, q.Price, q.Buy, q.Sell, q.Bid, q.Ask, q.Source, q.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Append(context.Background(), q)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPriceHistoryRepo_QueryRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPriceHistoryRepo(mock)
	since := time.Now().UTC().Add(-24 * time.Hour)
	newest := time.Now().UTC()

	rows := pgxmock.NewRows(historyColumns()).
		AddRow("USDT", "ARS", 1055.0, 1055.0, 1061.0, 0.0, 0.0, domain.SourceCriptoYa, newest).
		AddRow("USDT", "ARS", 1050.0, 0.0, 0.0, 0.0, 0.0, domain.SourceBinance, newest.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM price_history").
		WithArgs("USDT", "ARS", since, 100).
		WillReturnRows(rows)

	quotes, err := repo.QueryRecent(context.Background(), "USDT", "ARS", since, 100)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, 1055.0, quotes[0].Price)
	assert.Equal(t, domain.SourceBinance, quotes[1].Source)
	assert.True(t, quotes[0].Timestamp.After(quotes[1].Timestamp), "newest first")
}

func TestPriceHistoryRepo_QueryRecent_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPriceHistoryRepo(mock)
	since := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM price_history").
		WithArgs("BTC", "ARS", since, 100).
		WillReturnRows(pgxmock.NewRows(historyColumns()))

	quotes, err := repo.QueryRecent(context.Background(), "BTC", "ARS", since, 100)
	assert.NoError(t, err)
	assert.Empty(t, quotes)
}
