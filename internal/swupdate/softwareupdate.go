package swupdate

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"codeberg.org/vintr/updatemon/internal/errors"
	"howett.net/plist"
)

// Build-train prefix of macOS 10.14; the fine-grained install flags first
// appeared there and older stores never fill them.
const minBuildPrefixForInstallFlags = 18

const (
	DefaultPreferencesPath        = "/Library/Preferences/com.apple.SoftwareUpdate.plist"
	DefaultManagedPreferencesPath = "/Library/Managed Preferences/com.apple.SoftwareUpdate.plist"
)

// Preference-domain key names, as written by the OS.
const (
	plistKeyAutomaticCheck      = "AutomaticCheckEnabled"
	plistKeyAutomaticDownload   = "AutomaticDownload"
	plistKeyInstallAppUpdates   = "AutomaticallyInstallAppUpdates"
	plistKeyInstallMacOSUpdates = "AutomaticallyInstallMacOSUpdates"
	plistKeyConfigDataInstall   = "ConfigDataInstall"
	plistKeyCriticalUpdates     = "CriticalUpdateInstall"
	plistKeyLastSuccessfulDate  = "LastSuccessfulDate"
	plistKeyRecommendedUpdates  = "RecommendedUpdates"
)

// PreferenceSource reads the on-disk softwareupdate preference domain. It
// implements both native contracts: PreferenceReader over the flag keys and
// ProductScanner over the RecommendedUpdates records. A missing plist is a
// host that never touched the domain, not an error; every flag keeps its
// zero value and a scan announces zero records.
type PreferenceSource struct {
	path        string
	managedPath string
}

func NewPreferenceSource(path, managedPath string) *PreferenceSource {
	if path == "" {
		path = DefaultPreferencesPath
	}
	if managedPath == "" {
		managedPath = DefaultManagedPreferencesPath
	}

	return &PreferenceSource{path: path, managedPath: managedPath}
}

func (s *PreferenceSource) ReadConfiguration(osVersion int) (Preferences, error) {
	prefs := Preferences{}

	domain, err := readDomain(s.path)
	if err != nil {
		return prefs, err
	}

	prefs.AutoUpdateEnabled = flagValue(domain, plistKeyAutomaticCheck)
	prefs.Download = flagValue(domain, plistKeyAutomaticDownload)
	prefs.ConfigDataUpdates = flagValue(domain, plistKeyConfigDataInstall)
	prefs.CriticalUpdates = flagValue(domain, plistKeyCriticalUpdates)

	if osVersion >= minBuildPrefixForInstallFlags {
		prefs.AppUpdates = flagValue(domain, plistKeyInstallAppUpdates)
		prefs.OSUpdates = flagValue(domain, plistKeyInstallMacOSUpdates)
	}

	if at, ok := domain[plistKeyLastSuccessfulDate].(time.Time); ok {
		prefs.LastCheckTimestamp = at.Unix()
	}

	// A key present in the managed domain is under MDM policy.
	managed, err := readDomain(s.managedPath)
	if err == nil {
		prefs.AutoUpdateManaged = keyPresent(managed, plistKeyAutomaticCheck)
		prefs.DownloadManaged = keyPresent(managed, plistKeyAutomaticDownload)
		if keyPresent(managed, plistKeyConfigDataInstall) == 1 || keyPresent(managed, plistKeyCriticalUpdates) == 1 {
			prefs.ConfigDataCriticalUpdatesManaged = 1
		}
		if osVersion >= minBuildPrefixForInstallFlags {
			prefs.OSUpdatesManaged = keyPresent(managed, plistKeyInstallMacOSUpdates)
		}
	}

	return prefs, nil
}

func (s *PreferenceSource) Scan(token string) error {
	domain, err := readDomain(s.path)
	if err != nil {
		return err
	}

	products, _ := domain[plistKeyRecommendedUpdates].([]interface{})
	DispatchCount(token, uint(len(products)))

	for i, product := range products {
		record, ok := product.(map[string]interface{})
		if !ok {
			continue
		}
		emitRecord(token, uint(i), record)
	}

	return nil
}

// emitRecord walks one product record, emitting scalars at the top level as
// flat fields and everything deeper as nested fields with a dotted key path.
func emitRecord(token string, seq uint, record map[string]interface{}) {
	for _, key := range sortedKeys(record) {
		emitValue(token, seq, []string{key}, record[key])
	}
}

func emitValue(token string, seq uint, path []string, value interface{}) {
	switch v := value.(type) {
	case map[string]interface{}:
		for _, key := range sortedKeys(v) {
			emitValue(token, seq, append(path, key), v[key])
		}
	case []interface{}:
		for i, item := range v {
			emitValue(token, seq, append(path, strconv.Itoa(i)), item)
		}
	default:
		rendered := renderScalar(v)
		if len(path) == 1 {
			DispatchField(token, seq, path[0], rendered)
			return
		}
		parent := strings.Join(path[:len(path)-1], KeyPathSeparator)
		DispatchNestedField(token, seq, parent, path[len(path)-1], rendered)
	}
}

func readDomain(path string) (map[string]interface{}, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}
		return nil, errFactory.Wrap(errors.ErrOperationFailed, err)
	}

	domain := map[string]interface{}{}
	if _, err := plist.Unmarshal(data, &domain); err != nil {
		return nil, errFactory.Wrap(errors.ErrOperationFailed, err)
	}

	return domain, nil
}

// flagValue coerces a preference value to the 0/1 flag rendering the row
// schema uses. The OS writes these as booleans, but profiles may write
// integers.
func flagValue(domain map[string]interface{}, key string) int {
	switch v := domain[key].(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case int64:
		if v != 0 {
			return 1
		}
		return 0
	case uint64:
		if v != 0 {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func keyPresent(domain map[string]interface{}, key string) int {
	if _, ok := domain[key]; ok {
		return 1
	}

	return 0
}

func renderScalar(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		if value {
			return "1"
		}
		return "0"
	case int64:
		return strconv.FormatInt(value, 10)
	case uint64:
		return strconv.FormatUint(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case time.Time:
		return strconv.FormatInt(value.Unix(), 10)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
