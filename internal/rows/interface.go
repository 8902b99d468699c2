package rows

// Row is a single key-value fact emitted by a collector. Seq groups rows
// belonging to the same source record; collectors that produce a single
// record always use Seq 0.
type Row struct {
	Seq   uint
	Key   string
	Value string
}

// Sink receives rows from collectors. Implementations must be safe to call
// from whatever goroutine a native callback arrives on, and must not block
// the caller for unbounded time.
type Sink interface {
	Push(row Row)
}

// Record is the regrouped view of one source record: its sequence id and
// its fields in emission order. Duplicate keys are preserved.
type Record struct {
	Seq    uint
	Fields []Field
}

// Field is one key-value pair within a Record.
type Field struct {
	Key   string
	Value string
}
