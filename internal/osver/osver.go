// Package osver derives the OS-version hint the preference reader needs:
// the major number of the kernel release (the Darwin build-train prefix on
// macOS).
package osver

import (
	"strconv"
	"strings"

	"codeberg.org/vintr/updatemon/internal/errors"
	"github.com/shirou/gopsutil/v3/host"
)

func BuildPrefix() (int, error) {
	version, err := host.KernelVersion()
	if err != nil {
		return 0, errors.New().Wrap(errors.ErrOSVersionFailed, err)
	}

	return ParseBuildPrefix(version)
}

// ParseBuildPrefix extracts the leading integer from a kernel release
// string such as "23.1.0".
func ParseBuildPrefix(version string) (int, error) {
	errFactory := errors.New()

	parts := strings.Split(version, ".")
	if len(parts) < 1 || parts[0] == "" {
		return 0, errFactory.WithData(errors.ErrOSVersionFailed, version)
	}

	prefix, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrOSVersionFailed, err)
	}

	return prefix, nil
}
