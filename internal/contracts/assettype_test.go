// internal/contracts/assettype_test.go
package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetTypeRoundTrip(t *testing.T) {
	for _, at := range []AssetType{AssetTypeArt, AssetTypeMusic, AssetTypeWriting, AssetTypePhotography, AssetTypeDesign} {
		parsed, err := ParseAssetType(at.String())
		require.NoError(t, err)
		assert.Equal(t, at, parsed)
		assert.True(t, at.Valid())
	}
}

func TestParseAssetTypeRejectsUnknownNames(t *testing.T) {
	for _, bad := range []string{"", "Art", "sculpture", "ART "} {
		_, err := ParseAssetType(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestAssetTypeValid(t *testing.T) {
	assert.False(t, AssetType(5).Valid())
	assert.Equal(t, "unknown(9)", AssetType(9).String())
}
