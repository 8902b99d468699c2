package swupdate

// Preferences is the full set of software-update policy flags the native
// preference store exposes. Flags the store does not fill keep their zero
// value; the collector still emits them so the row schema is stable across
// OS versions.
type Preferences struct {
	AutoUpdateManaged                int
	AutoUpdateEnabled                int
	DownloadManaged                  int
	Download                         int
	AppUpdates                       int
	OSUpdatesManaged                 int
	OSUpdates                        int
	ConfigDataCriticalUpdatesManaged int
	ConfigDataUpdates                int
	CriticalUpdates                  int
	// LastCheckTimestamp is the native epoch value, passed through without
	// timezone conversion.
	LastCheckTimestamp int64
}

// PreferenceReader is the native preference-query entry point. The reader
// decides which flags the given OS version supports and leaves the rest at
// their zero value.
type PreferenceReader interface {
	ReadConfiguration(osVersion int) (Preferences, error)
}

// ScanHandler receives the native product-scan callbacks for one scan.
// Callbacks may arrive on any goroutine and in any interleaving; only the
// sequence id ties a record's fields together.
type ScanHandler interface {
	// Count announces the total number of records the scan expects to emit.
	// It is an advisory pre-sizing hint, not a guarantee.
	Count(n uint)
	// Field delivers one flat key-value pair of the record with the given
	// sequence id.
	Field(seq uint, key, value string)
	// NestedField delivers one key-value pair nested under parentKey.
	NestedField(seq uint, parentKey, key, value string)
}

// ProductScanner is the native product-scan entry point. Implementations
// route their callbacks through the Dispatch functions using the given call
// token, and return once the scan has completed or failed.
type ProductScanner interface {
	Scan(token string) error
}
