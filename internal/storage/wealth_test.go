package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountUpsertAndDelete(t *testing.T) {
	repo := newTestRepo(t)

	id, err := repo.UpsertAccount(&Account{Name: "Broker", Type: "brokerage", Currency: "USD"})
	require.NoError(t, err)

	_, err = repo.UpsertAccount(&Account{ID: id, Name: "Broker EU", Currency: "EUR"})
	require.NoError(t, err)

	saved, err := repo.GetAccount(id)
	require.NoError(t, err)
	assert.Equal(t, "Broker EU", saved.Name)
	assert.Equal(t, "EUR", saved.Currency)
	assert.Empty(t, saved.Type) // full-field update clears the type

	n, err := repo.DeleteAccount(id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteAccount(id)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPortfolioCascadeDelete(t *testing.T) {
	repo := newTestRepo(t)

	pid, err := repo.UpsertPortfolio(&Portfolio{Name: "Main", BaseCurrency: "USD"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := repo.InsertTransaction(&Transaction{
			PortfolioID: pid, Date: "2024-01-01", Symbol: "AAPL", Type: "BUY", Qty: 1, Price: 190,
		})
		require.NoError(t, err)
	}

	txns, err := repo.ListTransactions(pid)
	require.NoError(t, err)
	require.Len(t, txns, 3)

	n, err := repo.DeletePortfolio(pid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	txns, err = repo.ListTransactions(pid)
	require.NoError(t, err)
	assert.Empty(t, txns, "transactions must be cascade-deleted with the portfolio")
}

func TestListTransactionsScopedToPortfolio(t *testing.T) {
	repo := newTestRepo(t)

	p1, err := repo.UpsertPortfolio(&Portfolio{Name: "One"})
	require.NoError(t, err)
	p2, err := repo.UpsertPortfolio(&Portfolio{Name: "Two"})
	require.NoError(t, err)

	_, err = repo.InsertTransaction(&Transaction{PortfolioID: p1, Date: "2024-01-01", Symbol: "A", Type: "BUY", Qty: 1})
	require.NoError(t, err)
	_, err = repo.InsertTransaction(&Transaction{PortfolioID: p2, Date: "2024-01-02", Symbol: "B", Type: "BUY", Qty: 1})
	require.NoError(t, err)

	txns, err := repo.ListTransactions(p1)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "A", txns[0].Symbol)
}
