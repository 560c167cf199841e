package common

import "path"

// UnknownStr is what String methods return for out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the default package name for an import path: its last element.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}
