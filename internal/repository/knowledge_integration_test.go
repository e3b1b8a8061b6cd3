//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/nagrik-labs/nagrikai/internal/pagination"
	"github.com/nagrik-labs/nagrikai/internal/service"
	"github.com/nagrik-labs/nagrikai/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(kind domain.ItemKind, displayName string) *domain.KnowledgeItem {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.NewKnowledgeItem(uuid.NewString(), kind, displayName, "General", "Details about "+displayName+".", now)
}

func TestKnowledgeRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)

	item := newTestItem(domain.ItemKindService, "Ration Card")
	require.NoError(t, repo.Create(ctx, item))

	retrieved, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, retrieved.ID)
	assert.Equal(t, domain.ItemKindService, retrieved.Kind)
	assert.Equal(t, domain.NamespaceServices, retrieved.Namespace)
	assert.Equal(t, "Ration Card", retrieved.DisplayName)
	assert.Equal(t, "General", retrieved.Category)
	assert.Equal(t, item.Content, retrieved.Content)
}

func TestKnowledgeRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)

	_, err := repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestKnowledgeRepository_EmptyCategory(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)

	item := newTestItem(domain.ItemKindScheme, "PM Awas Yojana")
	item.Category = ""
	require.NoError(t, repo.Create(ctx, item))

	retrieved, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, retrieved.Category)
}

func TestKnowledgeRepository_Update(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)

	item := newTestItem(domain.ItemKindScheme, "Old Name")
	require.NoError(t, repo.Create(ctx, item))

	item.DisplayName = "New Name"
	item.Content = "Updated details."
	require.NoError(t, repo.Update(ctx, item))

	retrieved, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", retrieved.DisplayName)
	assert.Equal(t, "Updated details.", retrieved.Content)
	assert.True(t, retrieved.UpdatedAt.After(retrieved.CreatedAt))
}

func TestKnowledgeRepository_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)

	item := newTestItem(domain.ItemKindScheme, "Ghost")
	err := repo.Update(ctx, item)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestKnowledgeRepository_Delete(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)

	item := newTestItem(domain.ItemKindService, "To Delete")
	require.NoError(t, repo.Create(ctx, item))

	require.NoError(t, repo.Delete(ctx, item.ID))

	_, err := repo.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	err = repo.Delete(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestKnowledgeRepository_ListWithCursor(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 5; i++ {
		item := domain.NewKnowledgeItem(
			uuid.NewString(),
			domain.ItemKindScheme,
			fmt.Sprintf("Scheme %d", i),
			"General",
			"Details.",
			base.Add(time.Duration(i)*time.Second),
		)
		require.NoError(t, repo.Create(ctx, item))
	}

	page1, err := repo.ListWithCursor(ctx, "", nil, 2)
	require.NoError(t, err)
	assert.Len(t, page1.Items, 2)
	assert.True(t, page1.HasMore)
	assert.NotEmpty(t, page1.NextCursor)
	assert.Equal(t, "Scheme 4", page1.Items[0].DisplayName)
	assert.Equal(t, "Scheme 3", page1.Items[1].DisplayName)

	cursor, err := pagination.DecodeCursor(page1.NextCursor)
	require.NoError(t, err)

	page2, err := repo.ListWithCursor(ctx, "", cursor, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Items, 2)
	assert.True(t, page2.HasMore)
	assert.Equal(t, "Scheme 2", page2.Items[0].DisplayName)
	assert.Equal(t, "Scheme 1", page2.Items[1].DisplayName)

	cursor2, err := pagination.DecodeCursor(page2.NextCursor)
	require.NoError(t, err)

	page3, err := repo.ListWithCursor(ctx, "", cursor2, 2)
	require.NoError(t, err)
	assert.Len(t, page3.Items, 1)
	assert.False(t, page3.HasMore)
	assert.Empty(t, page3.NextCursor)
	assert.Equal(t, "Scheme 0", page3.Items[0].DisplayName)
}

func TestKnowledgeRepository_ListWithCursor_NamespaceFilter(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)

	require.NoError(t, repo.Create(ctx, newTestItem(domain.ItemKindScheme, "A Scheme")))
	require.NoError(t, repo.Create(ctx, newTestItem(domain.ItemKindService, "A Service")))

	page, err := repo.ListWithCursor(ctx, domain.NamespaceSchemes, nil, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A Scheme", page.Items[0].DisplayName)
	assert.False(t, page.HasMore)
}

func TestTxRunner_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	runner := NewTxRunner(pool)
	itemRepo := NewKnowledgeRepository(pool)
	jobRepo := NewEmbeddingJobRepository(pool)

	t.Run("commit persists item and job together", func(t *testing.T) {
		item := newTestItem(domain.ItemKindService, "Committed Service")
		job := &domain.EmbeddingJob{
			ID:        uuid.NewString(),
			ItemID:    item.ID,
			Status:    domain.EmbeddingJobStatusPending,
			CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		}

		err := runner.WithTx(ctx, func(repos service.TxRepositories) error {
			if err := repos.Items().Create(ctx, item); err != nil {
				return err
			}
			return repos.EmbeddingJobs().Create(ctx, job)
		})
		require.NoError(t, err)

		_, err = itemRepo.GetByID(ctx, item.ID)
		assert.NoError(t, err)
		_, err = jobRepo.GetByID(ctx, job.ID)
		assert.NoError(t, err)
	})

	t.Run("error rolls back the item write", func(t *testing.T) {
		require.NoError(t, testutil.TruncateAll(ctx, pool))

		item := newTestItem(domain.ItemKindService, "Rolled Back Service")

		err := runner.WithTx(ctx, func(repos service.TxRepositories) error {
			if err := repos.Items().Create(ctx, item); err != nil {
				return err
			}
			return fmt.Errorf("job enqueue failed")
		})
		require.Error(t, err)

		_, err = itemRepo.GetByID(ctx, item.ID)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}
