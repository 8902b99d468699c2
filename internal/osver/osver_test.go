package osver_test

import (
	"testing"

	"codeberg.org/vintr/updatemon/internal/osver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildPrefix(t *testing.T) {
	prefix, err := osver.ParseBuildPrefix("23.1.0")
	require.NoError(t, err)
	assert.Equal(t, 23, prefix)
}

func TestParseBuildPrefixSingleComponent(t *testing.T) {
	prefix, err := osver.ParseBuildPrefix("18")
	require.NoError(t, err)
	assert.Equal(t, 18, prefix)
}

func TestParseBuildPrefixInvalid(t *testing.T) {
	for _, version := range []string{"", "generic", ".1.0"} {
		_, err := osver.ParseBuildPrefix(version)
		assert.Error(t, err, "version %q", version)
	}
}
