package mock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"quill/app/models"
	"quill/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTxRollback(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx repositories.Store) error {
		require.NoError(t, tx.Users().Create(ctx, &models.User{Email: "a@example.com", Password: "x", Name: "A"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Users().GetByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestWithTxConcurrentCommits(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.WithTx(ctx, func(tx repositories.Store) error {
				email := fmt.Sprintf("user%d@example.com", i)
				return tx.Users().Create(ctx, &models.User{Email: email, Password: "x", Name: "U"})
			})
		}()
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		_, err := store.Users().GetByEmail(ctx, fmt.Sprintf("user%d@example.com", i))
		assert.NoError(t, err, "commit %d was lost", i)
	}
}
