package rebalance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reqrank/internal/rebalance"
	"github.com/roach88/reqrank/internal/req"
	"github.com/roach88/reqrank/internal/testutil"
)

func TestAutoCascade_RedistributesHighEnd(t *testing.T) {
	repo := fixture(
		"req_low", 100,
		"req_a", 250,
		"req_b", 252,
		"req_c", 255,
	)
	e := rebalance.New(repo)

	updates, err := e.AutoCascade(context.Background(), 250)
	require.NoError(t, err)
	require.Len(t, updates, 3)

	got := priorities(repo)
	// Descending enumeration across [250,255]: 255, 253, 250
	assert.Equal(t, uint8(255), got["req_c"])
	assert.Equal(t, uint8(253), got["req_b"])
	assert.Equal(t, uint8(250), got["req_a"])
}

func TestAutoCascade_LeavesLowerPrioritiesAlone(t *testing.T) {
	repo := fixture(
		"req_low1", 10,
		"req_low2", 249,
		"req_hi1", 251,
		"req_hi2", 251,
	)
	e := rebalance.New(repo)

	_, err := e.AutoCascade(context.Background(), 250)
	require.NoError(t, err)

	got := priorities(repo)
	assert.Equal(t, uint8(10), got["req_low1"])
	assert.Equal(t, uint8(249), got["req_low2"])
	assert.GreaterOrEqual(t, got["req_hi1"], uint8(250))
	assert.GreaterOrEqual(t, got["req_hi2"], uint8(250))
}

func TestAutoCascade_EmptySubsetIsNoOp(t *testing.T) {
	repo := fixture("req_001", 10)
	e := rebalance.New(repo)

	updates, err := e.AutoCascade(context.Background(), 250)
	require.NoError(t, err)
	assert.Empty(t, updates)
	assert.Equal(t, 0, repo.TxCount)
}

func TestAutoCascade_SinglePinnedToMax(t *testing.T) {
	repo := fixture("req_001", 252)
	e := rebalance.New(repo)

	updates, err := e.AutoCascade(context.Background(), 250)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, uint8(255), updates[0].NewPriority)
}

func TestRebalanceRange_RedistributesWindow(t *testing.T) {
	repo := fixture(
		"req_a", 10,
		"req_b", 20,
		"req_c", 30,
		"req_out", 200,
	)
	e := rebalance.New(repo)

	updates, err := e.RebalanceRange(context.Background(), 0, 100)
	require.NoError(t, err)
	require.Len(t, updates, 3)

	got := priorities(repo)
	assert.Equal(t, uint8(0), got["req_a"])
	assert.Equal(t, uint8(50), got["req_b"])
	assert.Equal(t, uint8(100), got["req_c"])
	assert.Equal(t, uint8(200), got["req_out"], "outside the window: untouched")
}

func TestRebalanceRange_SubsetOfOneIsNoOp(t *testing.T) {
	repo := fixture("req_a", 50, "req_b", 200)
	e := rebalance.New(repo)

	updates, err := e.RebalanceRange(context.Background(), 0, 100)
	require.NoError(t, err)
	assert.Empty(t, updates)
	assert.Equal(t, uint8(50), priorities(repo)["req_a"])
}

func TestRebalanceRange_InvalidWindow(t *testing.T) {
	repo := fixture("req_a", 50)
	e := rebalance.New(repo)

	_, err := e.RebalanceRange(context.Background(), 100, 50)
	require.Error(t, err)
	assert.True(t, rebalance.IsInvalidArgument(err))
}

func TestRebalanceRange_Containment(t *testing.T) {
	repo := fixture("req_a", 60, "req_b", 70, "req_c", 80, "req_d", 90)
	e := rebalance.New(repo)

	_, err := e.RebalanceRange(context.Background(), 50, 150)
	require.NoError(t, err)

	for id, p := range priorities(repo) {
		assert.GreaterOrEqual(t, p, uint8(50), id)
		assert.LessOrEqual(t, p, uint8(150), id)
	}
}

func TestBatchInsert_EmptyIsNoOp(t *testing.T) {
	repo := testutil.NewMemRepo()
	e := rebalance.New(repo)

	updates, err := e.BatchInsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, updates)
	assert.Equal(t, 0, repo.TxCount)
}

func TestBatchInsert_NoCollisionsNoRedistribution(t *testing.T) {
	repo := fixture("req_001", 10)
	e := rebalance.New(repo)

	updates, err := e.BatchInsert(context.Background(), []req.Requirement{
		{ID: "req_002", Title: "Second", Priority: 50},
		{ID: "req_003", Title: "Third", Priority: 200},
	})
	require.NoError(t, err)
	assert.Empty(t, updates, "no redistribution when priorities stay distinct")

	got := priorities(repo)
	assert.Equal(t, uint8(50), got["req_002"])
	assert.Equal(t, uint8(200), got["req_003"])
}

func TestBatchInsert_CollisionTriggersRedistribution(t *testing.T) {
	repo := fixture("req_001", 50)
	e := rebalance.New(repo)

	updates, err := e.BatchInsert(context.Background(), []req.Requirement{
		{ID: "req_002", Title: "Second", Priority: 50},
	})
	require.NoError(t, err)
	require.NotEmpty(t, updates, "duplicate priorities trigger a full redistribution")

	seen := make(map[uint8]bool)
	for _, r := range repo.Snapshot() {
		assert.False(t, seen[r.Priority], "duplicate priority %d after cleanup", r.Priority)
		seen[r.Priority] = true
	}
}

func TestBatchInsert_InvalidMemberRollsBackEverything(t *testing.T) {
	repo := testutil.NewMemRepo()
	e := rebalance.New(repo)

	_, err := e.BatchInsert(context.Background(), []req.Requirement{
		{ID: "req_valid_1", Title: "Valid 1", Priority: 50},
		{Title: "Invalid", Priority: 100}, // empty ID
		{ID: "req_valid_2", Title: "Valid 2", Priority: 150},
	})
	require.Error(t, err)
	assert.True(t, rebalance.IsTransactionFailure(err))

	assert.Empty(t, repo.Snapshot(), "nothing may be inserted after rollback")
}
