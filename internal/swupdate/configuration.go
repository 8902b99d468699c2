package swupdate

import (
	"context"
	"strconv"

	"codeberg.org/vintr/updatemon/internal/errors"
	"codeberg.org/vintr/updatemon/internal/rows"
)

// Row keys emitted by the configuration collector, one per preference flag.
// The set and order are fixed regardless of which flags the native store
// filled in.
const (
	KeyAutoUpdateManaged                = "autoupdate_managed"
	KeyAutoUpdateEnabled                = "autoupdate_enabled"
	KeyDownloadManaged                  = "download_managed"
	KeyDownload                         = "download"
	KeyAppUpdates                       = "app_updates"
	KeyOSUpdatesManaged                 = "os_updates_managed"
	KeyOSUpdates                        = "os_updates"
	KeyConfigDataCriticalUpdatesManaged = "config_data_critical_updates_managed"
	KeyConfigDataUpdates                = "config_data_updates"
	KeyCriticalUpdates                  = "critical_updates"
	KeyLastCheckTimestamp               = "last_successful_check_timestamp"
)

// ConfigurationCollector re-emits the native preference snapshot as rows.
type ConfigurationCollector struct {
	reader PreferenceReader
}

func NewConfigurationCollector(reader PreferenceReader) (*ConfigurationCollector, error) {
	errFactory := errors.New()

	if reader == nil {
		return nil, errFactory.New(ErrNoReader)
	}

	return &ConfigurationCollector{reader: reader}, nil
}

// Collect reads the preference store once and pushes one row per flag to
// sink, all under sequence id 0. Always a full re-read; never cached.
func (c *ConfigurationCollector) Collect(ctx context.Context, osVersion int, sink rows.Sink) error {
	errFactory := errors.New()

	if sink == nil {
		return errFactory.New(ErrNoSink)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrCollectCancelled, ctx.Err())
	default:
	}

	prefs, err := c.reader.ReadConfiguration(osVersion)
	if err != nil {
		return errFactory.Wrap(ErrPreferencesFailed, err)
	}

	for _, field := range []struct {
		key   string
		value int64
	}{
		{KeyAutoUpdateManaged, int64(prefs.AutoUpdateManaged)},
		{KeyAutoUpdateEnabled, int64(prefs.AutoUpdateEnabled)},
		{KeyDownloadManaged, int64(prefs.DownloadManaged)},
		{KeyDownload, int64(prefs.Download)},
		{KeyAppUpdates, int64(prefs.AppUpdates)},
		{KeyOSUpdatesManaged, int64(prefs.OSUpdatesManaged)},
		{KeyOSUpdates, int64(prefs.OSUpdates)},
		{KeyConfigDataCriticalUpdatesManaged, int64(prefs.ConfigDataCriticalUpdatesManaged)},
		{KeyConfigDataUpdates, int64(prefs.ConfigDataUpdates)},
		{KeyCriticalUpdates, int64(prefs.CriticalUpdates)},
		{KeyLastCheckTimestamp, prefs.LastCheckTimestamp},
	} {
		sink.Push(rows.Row{Seq: 0, Key: field.key, Value: strconv.FormatInt(field.value, 10)})
	}

	return nil
}
