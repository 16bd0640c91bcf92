// internal/contracts/assettype.go
package contracts

import "fmt"

// AssetType classifies a registered work. Values are wire-stable: they are
// emitted as uint8 in CopyrightRegistered and must never be reordered.
type AssetType uint8

const (
	AssetTypeArt AssetType = iota
	AssetTypeMusic
	AssetTypeWriting
	AssetTypePhotography
	AssetTypeDesign
)

func (t AssetType) Valid() bool {
	return t <= AssetTypeDesign
}

func (t AssetType) String() string {
	switch t {
	case AssetTypeArt:
		return "art"
	case AssetTypeMusic:
		return "music"
	case AssetTypeWriting:
		return "writing"
	case AssetTypePhotography:
		return "photography"
	case AssetTypeDesign:
		return "design"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ParseAssetType maps the API-level name back to the enum value.
func ParseAssetType(s string) (AssetType, error) {
	switch s {
	case "art":
		return AssetTypeArt, nil
	case "music":
		return AssetTypeMusic, nil
	case "writing":
		return AssetTypeWriting, nil
	case "photography":
		return AssetTypePhotography, nil
	case "design":
		return AssetTypeDesign, nil
	}
	return 0, fmt.Errorf("unknown asset type %q", s)
}
