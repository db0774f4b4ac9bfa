package gateway

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// setupTestDB spins up a MongoDB container. Gated behind CART_INTEGRATION
// so the suite runs without Docker by default.
func setupTestDB(t *testing.T) *MongoGateway {
	if os.Getenv("CART_INTEGRATION") == "" {
		t.Skip("set CART_INTEGRATION=1 to run MongoDB integration tests")
	}

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	gw := NewMongoGateway(db)
	require.NoError(t, gw.CreateIndexes(ctx))
	return gw
}

func TestFetchAll_EmptyCart(t *testing.T) {
	gw := setupTestDB(t)

	lines, err := gw.FetchAll(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestUpsertQuantity_NewLine(t *testing.T) {
	gw := setupTestDB(t)
	ctx := context.Background()

	err := gw.UpsertQuantity(ctx, "user123", "apple", 3)
	require.NoError(t, err)

	lines, err := gw.FetchAll(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "apple", lines[0].ProductID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.NotEmpty(t, lines[0].LineID)
	assert.False(t, lines[0].AddedAt.IsZero())
}

func TestUpsertQuantity_ExistingLine_ReplacesQuantityKeepsLineID(t *testing.T) {
	gw := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, gw.UpsertQuantity(ctx, "user123", "apple", 2))

	lines, err := gw.FetchAll(ctx, "user123")
	require.NoError(t, err)
	originalLineID := lines[0].LineID

	require.NoError(t, gw.UpsertQuantity(ctx, "user123", "apple", 5))

	lines, err = gw.FetchAll(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, originalLineID, lines[0].LineID)
}

func TestFetchAll_OrderedByAddedAt(t *testing.T) {
	gw := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, gw.UpsertQuantity(ctx, "user123", "apple", 1))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, gw.UpsertQuantity(ctx, "user123", "milk", 1))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, gw.UpsertQuantity(ctx, "user123", "bread", 1))

	lines, err := gw.FetchAll(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "apple", lines[0].ProductID)
	assert.Equal(t, "milk", lines[1].ProductID)
	assert.Equal(t, "bread", lines[2].ProductID)
}

func TestFetchAll_ScopedToOwner(t *testing.T) {
	gw := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, gw.UpsertQuantity(ctx, "alice", "apple", 1))
	require.NoError(t, gw.UpsertQuantity(ctx, "bob", "milk", 2))

	lines, err := gw.FetchAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "apple", lines[0].ProductID)
}

func TestDeleteLine(t *testing.T) {
	gw := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, gw.UpsertQuantity(ctx, "user123", "apple", 2))
	require.NoError(t, gw.UpsertQuantity(ctx, "user123", "milk", 3))

	require.NoError(t, gw.DeleteLine(ctx, "user123", "apple"))

	lines, err := gw.FetchAll(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "milk", lines[0].ProductID)
}

func TestDeleteLine_AbsentIsNoop(t *testing.T) {
	gw := setupTestDB(t)

	assert.NoError(t, gw.DeleteLine(context.Background(), "user123", "nope"))
}

func TestDeleteAll(t *testing.T) {
	gw := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, gw.UpsertQuantity(ctx, "user123", "apple", 2))
	require.NoError(t, gw.UpsertQuantity(ctx, "user123", "milk", 3))

	require.NoError(t, gw.DeleteAll(ctx, "user123"))

	lines, err := gw.FetchAll(ctx, "user123")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestContextCancellation(t *testing.T) {
	gw := setupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(10 * time.Millisecond)

	_, err := gw.FetchAll(ctx, "user123")
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}
