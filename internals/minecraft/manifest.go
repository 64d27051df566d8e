package minecraft

// LaunchManifest is a version.json manifest that is used to launch
// minecraft instances. Derived versions (mod loaders mostly) only carry a
// partial manifest plus an InheritsFrom pointer; MergeWith folds the parent
// in, after that the manifest is treated as complete and immutable.
type LaunchManifest struct {
	ID string `json:"id"`
	// MinecraftArguments is the single pre-formatted argument string used
	// before 1.13
	MinecraftArguments string `json:"minecraftArguments"`
	// Arguments is the newer templated system
	Arguments ArgumentList `json:"arguments"`
	Downloads struct {
		Client Artifact `json:"client"`
		Server Artifact `json:"server"`
	} `json:"downloads"`
	Libraries  Libraries `json:"libraries"`
	Type       string    `json:"type"`
	MainClass  string    `json:"mainClass"`
	Jar        string    `json:"jar"`
	Assets     string    `json:"assets"`
	AssetIndex struct {
		ID        string `json:"id"`
		Sha1      string `json:"sha1"`
		Size      int64  `json:"size"`
		TotalSize int64  `json:"totalSize"`
		URL       string `json:"url"`
	} `json:"assetIndex"`
	Logging struct {
		Client LoggingConfig `json:"client"`
	} `json:"logging"`
	JavaVersion struct {
		Component    string `json:"component"`
		MajorVersion int    `json:"majorVersion"`
	} `json:"javaVersion"`
	InheritsFrom string `json:"inheritsFrom"`
}

// LoggingConfig describes the optional log4j configuration artifact
type LoggingConfig struct {
	// Argument is a jvm arg template, usually "-Dlog4j.configurationFile=${path}"
	Argument string `json:"argument"`
	File     struct {
		ID   string `json:"id"`
		Sha1 string `json:"sha1"`
		Size int64  `json:"size"`
		URL  string `json:"url"`
	} `json:"file"`
	Type string `json:"type"`
}

// MergeWith merges the resolved parent manifest into this (child) manifest.
//
// Libraries: a child library fully replaces any parent library sharing its
// group:artifact base coordinate. Non-overridden parent libraries come
// first, all child libraries follow.
// Arguments: when the child declares an arguments block the merged lists are
// parent first, child appended. Otherwise the parent block is taken as is.
// Scalars: child wins, empty child fields fall back to the parent.
func (l *LaunchManifest) MergeWith(parent *LaunchManifest) {
	overridden := make(map[string]bool, len(l.Libraries))
	for _, lib := range l.Libraries {
		overridden[BaseCoordinate(lib.Name)] = true
	}

	merged := make(Libraries, 0, len(parent.Libraries)+len(l.Libraries))
	for _, lib := range parent.Libraries {
		if overridden[BaseCoordinate(lib.Name)] {
			continue
		}
		merged = append(merged, lib)
	}
	l.Libraries = append(merged, l.Libraries...)

	if l.Arguments.IsZero() {
		l.Arguments = parent.Arguments
	} else {
		l.Arguments.Game = append(append([]Argument{}, parent.Arguments.Game...), l.Arguments.Game...)
		l.Arguments.JVM = append(append([]Argument{}, parent.Arguments.JVM...), l.Arguments.JVM...)
	}

	if l.MinecraftArguments == "" {
		l.MinecraftArguments = parent.MinecraftArguments
	}
	if l.MainClass == "" {
		l.MainClass = parent.MainClass
	}
	if l.Assets == "" {
		l.Assets = parent.Assets
	}
	if l.AssetIndex.ID == "" {
		l.AssetIndex = parent.AssetIndex
	}
	if l.Downloads.Client.URL == "" {
		l.Downloads = parent.Downloads
	}
	if l.Type == "" {
		l.Type = parent.Type
	}
	if l.Jar == "" {
		l.Jar = parent.Jar
	}
	if l.Logging.Client.File.URL == "" {
		l.Logging = parent.Logging
	}
	if l.JavaVersion.MajorVersion == 0 {
		l.JavaVersion = parent.JavaVersion
	}
}

// MinecraftVersion returns the vanilla version this manifest is based on
func (l *LaunchManifest) MinecraftVersion() string {
	switch {
	case l.Jar != "":
		return l.Jar
	case l.InheritsFrom != "":
		return l.InheritsFrom
	default:
		return l.ID
	}
}

// JarName returns the file name of the main jar
func (l *LaunchManifest) JarName() string {
	return l.MinecraftVersion() + ".jar"
}
