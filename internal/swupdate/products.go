package swupdate

import (
	"context"
	"sync"

	"codeberg.org/vintr/updatemon/internal/errors"
	"codeberg.org/vintr/updatemon/internal/logger"
	"codeberg.org/vintr/updatemon/internal/rows"
)

// KeyPathSeparator joins parent and child keys of nested product fields into
// a single flat row key.
const KeyPathSeparator = "."

// ProductCollector drives one native product scan and re-emits every record
// field as a row keyed by the record's sequence id.
type ProductCollector struct {
	scanner ProductScanner
}

func NewProductCollector(scanner ProductScanner) (*ProductCollector, error) {
	errFactory := errors.New()

	if scanner == nil {
		return nil, errFactory.New(ErrNoScanner)
	}

	return &ProductCollector{scanner: scanner}, nil
}

// Collect triggers a fresh native scan and pushes its rows to sink. It
// returns the number of distinct records observed. A scan that fails
// mid-stream returns ErrScanPartial; rows already pushed stand.
func (c *ProductCollector) Collect(ctx context.Context, sink rows.Sink) (uint, error) {
	errFactory := errors.New()

	if sink == nil {
		return 0, errFactory.New(ErrNoSink)
	}

	select {
	case <-ctx.Done():
		return 0, errFactory.Wrap(ErrCollectCancelled, ctx.Err())
	default:
	}

	handler := newScanEmitter(sink)
	token := scanRegistry.register(handler)
	defer scanRegistry.unregister(token)

	err := c.scanner.Scan(token)
	observed := handler.observed()

	if err != nil {
		return observed, errFactory.Wrap(ErrScanPartial, err)
	}

	if announced, ok := handler.announced(); ok && announced != observed {
		// Advisory count only; a disagreement is a native-layer anomaly,
		// not a bridge failure.
		logger.Warn().
			Uint("announced", announced).
			Uint("observed", observed).
			Msg("Product scan count disagrees with records observed")
	}

	return observed, nil
}

// scanEmitter turns scan callbacks into rows. Callbacks may arrive on any
// goroutine and in any flat/nested interleaving, so every emission is
// stateless apart from the sequence-id bookkeeping.
type scanEmitter struct {
	sink rows.Sink

	mu           sync.Mutex
	count        uint
	countSet     bool
	seqsObserved map[uint]struct{}
}

func newScanEmitter(sink rows.Sink) *scanEmitter {
	return &scanEmitter{
		sink:         sink,
		seqsObserved: make(map[uint]struct{}),
	}
}

func (e *scanEmitter) Count(n uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.count = n
	e.countSet = true
}

func (e *scanEmitter) Field(seq uint, key, value string) {
	e.markSeq(seq)
	e.sink.Push(rows.Row{Seq: seq, Key: key, Value: value})
}

func (e *scanEmitter) NestedField(seq uint, parentKey, key, value string) {
	e.markSeq(seq)
	e.sink.Push(rows.Row{Seq: seq, Key: parentKey + KeyPathSeparator + key, Value: value})
}

func (e *scanEmitter) markSeq(seq uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seqsObserved[seq] = struct{}{}
}

func (e *scanEmitter) observed() uint {
	e.mu.Lock()
	defer e.mu.Unlock()

	return uint(len(e.seqsObserved))
}

func (e *scanEmitter) announced() (uint, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.count, e.countSet
}
