package minecraft

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidCoordinate is returned when a library name does not look like a
// maven coordinate
type ErrInvalidCoordinate struct {
	Coordinate string
}

func (e *ErrInvalidCoordinate) Error() string {
	return fmt.Sprintf("invalid library coordinate %q (want group:artifact:version[:classifier])", e.Coordinate)
}

// CoordinatePath resolves a "group:artifact:version[:classifier]" coordinate
// to its relative path inside a maven style library tree.
// An explicit classifier argument wins over the coordinate's own classifier.
func CoordinatePath(coordinate string, classifier string) (string, error) {
	parts := strings.Split(coordinate, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return "", &ErrInvalidCoordinate{Coordinate: coordinate}
	}

	group, name, version := parts[0], parts[1], parts[2]
	if classifier == "" && len(parts) == 4 {
		classifier = parts[3]
	}

	file := name + "-" + version
	if classifier != "" {
		file += "-" + classifier
	}

	groupPath := filepath.Join(strings.Split(group, ".")...)
	return filepath.Join(groupPath, name, version, file+".jar"), nil
}

// BaseCoordinate reduces a coordinate to its "group:artifact" part.
// Version and classifier are ignored so a child manifest can override a
// parent library that only differs in those.
func BaseCoordinate(coordinate string) string {
	parts := strings.SplitN(coordinate, ":", 3)
	if len(parts) < 2 {
		return coordinate
	}
	return parts[0] + ":" + parts[1]
}
