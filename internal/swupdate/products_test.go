package swupdate_test

import (
	"context"
	"sync"
	"testing"

	"codeberg.org/vintr/updatemon/internal/errors"
	"codeberg.org/vintr/updatemon/internal/rows"
	"codeberg.org/vintr/updatemon/internal/swupdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedScanner replays a fixed callback sequence through the dispatch
// entry points, the way the native glue would.
type scriptedScanner struct {
	script func(token string)
	err    error
}

func (s *scriptedScanner) Scan(token string) error {
	if s.script != nil {
		s.script(token)
	}
	return s.err
}

func TestCollectProductsFlattensRecords(t *testing.T) {
	scanner := &scriptedScanner{script: func(token string) {
		swupdate.DispatchCount(token, 2)
		swupdate.DispatchField(token, 0, "name", "A")
		swupdate.DispatchField(token, 1, "name", "B")
		swupdate.DispatchNestedField(token, 1, "sub", "id", "42")
	}}
	collector, err := swupdate.NewProductCollector(scanner)
	require.NoError(t, err)

	buf := rows.NewBuffer()
	count, err := collector.Collect(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, uint(2), count)

	got := buf.Rows()
	require.Len(t, got, 3)
	assert.Equal(t, rows.Row{Seq: 0, Key: "name", Value: "A"}, got[0])
	assert.Equal(t, rows.Row{Seq: 1, Key: "name", Value: "B"}, got[1])
	assert.Equal(t, rows.Row{Seq: 1, Key: "sub.id", Value: "42"}, got[2])
}

func TestCollectProductsToleratesInterleaving(t *testing.T) {
	// Nested fields may arrive before flat fields of the same record.
	scanner := &scriptedScanner{script: func(token string) {
		swupdate.DispatchNestedField(token, 0, "pkg", "id", "x")
		swupdate.DispatchField(token, 1, "name", "B")
		swupdate.DispatchField(token, 0, "name", "A")
		swupdate.DispatchCount(token, 2)
	}}
	collector, err := swupdate.NewProductCollector(scanner)
	require.NoError(t, err)

	buf := rows.NewBuffer()
	count, err := collector.Collect(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, uint(2), count)

	records := rows.Group(buf.Rows())
	require.Len(t, records, 2)
	assert.Equal(t, uint(0), records[0].Seq)
	assert.Len(t, records[0].Fields, 2)
	assert.Equal(t, uint(1), records[1].Seq)
	assert.Len(t, records[1].Fields, 1)
}

func TestCollectProductsKeepsDuplicateKeys(t *testing.T) {
	scanner := &scriptedScanner{script: func(token string) {
		swupdate.DispatchCount(token, 1)
		swupdate.DispatchField(token, 0, "tag", "first")
		swupdate.DispatchField(token, 0, "tag", "second")
	}}
	collector, err := swupdate.NewProductCollector(scanner)
	require.NoError(t, err)

	buf := rows.NewBuffer()
	_, err = collector.Collect(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, 2, buf.Len(), "duplicate keys pass through undeduplicated")
}

func TestCollectProductsEmptyScan(t *testing.T) {
	scanner := &scriptedScanner{script: func(token string) {
		swupdate.DispatchCount(token, 0)
	}}
	collector, err := swupdate.NewProductCollector(scanner)
	require.NoError(t, err)

	buf := rows.NewBuffer()
	count, err := collector.Collect(context.Background(), buf)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, buf.Len())
}

func TestCollectProductsCountMismatchIsAdvisory(t *testing.T) {
	// One announced record never emits a field. The empty record is valid
	// and the disagreement is logged, not surfaced as an error.
	scanner := &scriptedScanner{script: func(token string) {
		swupdate.DispatchCount(token, 2)
		swupdate.DispatchField(token, 0, "name", "A")
	}}
	collector, err := swupdate.NewProductCollector(scanner)
	require.NoError(t, err)

	buf := rows.NewBuffer()
	count, err := collector.Collect(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, uint(1), count, "only sequence ids that emitted fields are observable")
	assert.Equal(t, 1, buf.Len())
}

func TestCollectProductsPartialFailureKeepsRows(t *testing.T) {
	errFactory := errors.New()
	scanner := &scriptedScanner{
		script: func(token string) {
			swupdate.DispatchCount(token, 2)
			swupdate.DispatchField(token, 0, "name", "A")
		},
		err: errFactory.New(errors.ErrOperationFailed),
	}
	collector, err := swupdate.NewProductCollector(scanner)
	require.NoError(t, err)

	buf := rows.NewBuffer()
	count, err := collector.Collect(context.Background(), buf)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, swupdate.ErrScanPartial))
	assert.Equal(t, uint(1), count)
	assert.Equal(t, 1, buf.Len(), "rows pushed before the failure stand")
}

func TestCollectProductsCancelledContext(t *testing.T) {
	scanner := &scriptedScanner{script: func(token string) {
		t.Error("scan must not start after cancellation")
	}}
	collector, err := swupdate.NewProductCollector(scanner)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = collector.Collect(ctx, rows.NewBuffer())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, swupdate.ErrCollectCancelled))
}

func TestConcurrentScansDoNotCrossDeliver(t *testing.T) {
	mk := func(name string) *scriptedScanner {
		return &scriptedScanner{script: func(token string) {
			swupdate.DispatchCount(token, 1)
			swupdate.DispatchField(token, 0, "name", name)
		}}
	}

	collectorA, err := swupdate.NewProductCollector(mk("A"))
	require.NoError(t, err)
	collectorB, err := swupdate.NewProductCollector(mk("B"))
	require.NoError(t, err)

	bufA := rows.NewBuffer()
	bufB := rows.NewBuffer()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = collectorA.Collect(context.Background(), bufA)
	}()
	go func() {
		defer wg.Done()
		_, _ = collectorB.Collect(context.Background(), bufB)
	}()
	wg.Wait()

	require.Equal(t, 1, bufA.Len())
	require.Equal(t, 1, bufB.Len())
	assert.Equal(t, "A", bufA.Rows()[0].Value)
	assert.Equal(t, "B", bufB.Rows()[0].Value)
}

func TestDispatchToUnknownTokenIsDropped(t *testing.T) {
	// A late callback from an abandoned scan has no registered handler.
	swupdate.DispatchField("no-such-token", 0, "name", "A")
	swupdate.DispatchNestedField("no-such-token", 0, "sub", "id", "42")
	swupdate.DispatchCount("no-such-token", 3)
}

func TestNewProductCollectorRequiresScanner(t *testing.T) {
	_, err := swupdate.NewProductCollector(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, swupdate.ErrNoScanner))
}
