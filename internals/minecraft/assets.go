package minecraft

// AssetIndex is a map of asset names to their content addressed objects
type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects"`
}

// AssetObject is one minecraft asset
type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// Valid reports whether the object carries a usable content hash.
// Indexes in the wild contain the occasional broken entry
func (a *AssetObject) Valid() bool {
	return len(a.Hash) >= 2
}

// UnixPath returns the path inside the objects folder
// example: fe/fe32f3b8…
func (a *AssetObject) UnixPath() string {
	if !a.Valid() {
		return a.Hash
	}
	return a.Hash[:2] + "/" + a.Hash
}

// DownloadURL returns the download url for this asset
func (a *AssetObject) DownloadURL() string {
	return "https://resources.download.minecraft.net/" + a.UnixPath()
}
