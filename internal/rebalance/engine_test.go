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

func fixture(pairs ...any) *testutil.MemRepo {
	var reqs []req.Requirement
	for i := 0; i < len(pairs); i += 2 {
		reqs = append(reqs, req.Requirement{
			ID:       pairs[i].(string),
			Title:    "Requirement " + pairs[i].(string),
			Priority: uint8(pairs[i+1].(int)),
		})
	}
	return testutil.NewMemRepo(reqs...)
}

func priorities(repo *testutil.MemRepo) map[string]uint8 {
	out := make(map[string]uint8)
	for _, r := range repo.Snapshot() {
		out[r.ID] = r.Priority
	}
	return out
}

func TestRedistribute_EvenSpacing(t *testing.T) {
	repo := fixture(
		"req_001", 10,
		"req_002", 10,
		"req_003", 50,
		"req_004", 200,
		"req_005", 200,
	)
	e := rebalance.New(repo)

	updates, err := e.Redistribute(context.Background())
	require.NoError(t, err)
	require.Len(t, updates, 5)

	// floor(255*i/4) for 5 requirements in original rank order
	expected := []uint8{0, 63, 127, 191, 255}
	for i, u := range updates {
		assert.Equal(t, expected[i], u.NewPriority, "rank %d", i)
	}

	got := priorities(repo)
	assert.Equal(t, uint8(0), got["req_001"])
	assert.Equal(t, uint8(63), got["req_002"])
	assert.Equal(t, uint8(127), got["req_003"])
	assert.Equal(t, uint8(191), got["req_004"])
	assert.Equal(t, uint8(255), got["req_005"])
}

func TestRedistribute_EmptySetTouchesNothing(t *testing.T) {
	repo := testutil.NewMemRepo()
	e := rebalance.New(repo)

	updates, err := e.Redistribute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, updates)
	assert.Equal(t, 0, repo.TxCount, "empty set must not open a transaction")
}

func TestRedistribute_SingleGetsMidpoint(t *testing.T) {
	repo := fixture("req_001", 3)
	e := rebalance.New(repo)

	updates, err := e.Redistribute(context.Background())
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, uint8(128), updates[0].NewPriority)
}

func TestRedistribute_Idempotent(t *testing.T) {
	repo := fixture("req_001", 7, "req_002", 7, "req_003", 240)
	e := rebalance.New(repo)
	ctx := context.Background()

	first, err := e.Redistribute(ctx)
	require.NoError(t, err)

	second, err := e.Redistribute(ctx)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].NewPriority, second[i].NewPriority,
			"second pass must reproduce rank %d", i)
	}
}

func TestRedistribute_PreservesOrder(t *testing.T) {
	repo := fixture(
		"req_a", 200,
		"req_b", 5,
		"req_c", 90,
		"req_d", 90,
		"req_e", 254,
	)
	e := rebalance.New(repo)

	before := priorities(repo)
	_, err := e.Redistribute(context.Background())
	require.NoError(t, err)
	after := priorities(repo)

	for a, pa := range before {
		for b, pb := range before {
			if pa < pb {
				assert.LessOrEqual(t, after[a], after[b],
					"%s was below %s before, must not rank above after", a, b)
			}
		}
	}
}

func TestCompress_HalvesPriorities(t *testing.T) {
	repo := fixture("req_001", 10, "req_002", 200, "req_003", 255)
	e := rebalance.New(repo)

	updates, err := e.Compress(context.Background(), 0.5)
	require.NoError(t, err)
	require.Len(t, updates, 3)

	got := priorities(repo)
	assert.Equal(t, uint8(5), got["req_001"])
	assert.Equal(t, uint8(100), got["req_002"])
	assert.Equal(t, uint8(127), got["req_003"])
}

func TestCompress_InvalidFactor(t *testing.T) {
	repo := fixture("req_001", 100)
	e := rebalance.New(repo)
	ctx := context.Background()

	for _, factor := range []float64{0, -0.5, 1, 1.5} {
		_, err := e.Compress(ctx, factor)
		require.Error(t, err, "factor %g", factor)
		assert.True(t, rebalance.IsInvalidArgument(err), "factor %g", factor)
	}

	// No store interaction on validation failure
	assert.Equal(t, 0, repo.TxCount)
	assert.Equal(t, uint8(100), priorities(repo)["req_001"])
}

func TestCompress_MayCollide(t *testing.T) {
	// 10 and 11 both floor to 5 - an accepted trade-off, not a bug
	repo := fixture("req_001", 10, "req_002", 11)
	e := rebalance.New(repo)

	_, err := e.Compress(context.Background(), 0.5)
	require.NoError(t, err)

	got := priorities(repo)
	assert.Equal(t, got["req_001"], got["req_002"])
}

func TestNormalize_MapsOntoTargetRange(t *testing.T) {
	repo := fixture("req_001", 50, "req_002", 100, "req_003", 150)
	e := rebalance.New(repo)

	updates, err := e.Normalize(context.Background(), 0, 100)
	require.NoError(t, err)
	require.Len(t, updates, 3)

	got := priorities(repo)
	assert.Equal(t, uint8(0), got["req_001"], "current min maps to target min")
	assert.Equal(t, uint8(50), got["req_002"])
	assert.Equal(t, uint8(100), got["req_003"], "current max maps to target max")
}

func TestNormalize_RangeContainment(t *testing.T) {
	repo := fixture("req_001", 3, "req_002", 77, "req_003", 140, "req_004", 251)
	e := rebalance.New(repo)

	_, err := e.Normalize(context.Background(), 40, 90)
	require.NoError(t, err)

	for id, p := range priorities(repo) {
		assert.GreaterOrEqual(t, p, uint8(40), "%s below target range", id)
		assert.LessOrEqual(t, p, uint8(90), "%s above target range", id)
	}
}

func TestNormalize_AllSameGetsMidpoint(t *testing.T) {
	repo := fixture("req_001", 100, "req_002", 100, "req_003", 100)
	e := rebalance.New(repo)

	updates, err := e.Normalize(context.Background(), 0, 255)
	require.NoError(t, err)
	require.Len(t, updates, 3)

	for id, p := range priorities(repo) {
		assert.Equal(t, uint8(127), p, id)
	}
}

func TestNormalize_InvalidRange(t *testing.T) {
	repo := fixture("req_001", 100)
	e := rebalance.New(repo)

	_, err := e.Normalize(context.Background(), 200, 100)
	require.Error(t, err)
	assert.True(t, rebalance.IsInvalidArgument(err))
	assert.Equal(t, 0, repo.TxCount)
}

func TestNormalize_EmptySet(t *testing.T) {
	repo := testutil.NewMemRepo()
	e := rebalance.New(repo)

	updates, err := e.Normalize(context.Background(), 0, 255)
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestRollback_LeavesPrioritiesUntouched(t *testing.T) {
	repo := fixture("req_001", 10, "req_002", 50, "req_003", 200)
	repo.FailAfterWrites = 2
	e := rebalance.New(repo)

	before := priorities(repo)
	_, err := e.Redistribute(context.Background())
	require.Error(t, err)
	assert.True(t, rebalance.IsTransactionFailure(err))

	assert.Equal(t, before, priorities(repo), "failed transaction must roll back fully")
}
