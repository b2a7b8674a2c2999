// Package runmodes folds the run mode dimension of a provisioning model into
// the strings a feature model can carry, and unfolds it again.
//
// Three conventions exist side by side and are kept apart on purpose:
//
//	bundle metadata      run-modes=a,b
//	configuration pid    my.pid.runmodes.a.b   (":" in the pid escaped to "..")
//	framework property   key.runmodes:a,b
//
// A nil slice always means "no run mode restriction".
package runmodes

import (
	"regexp"
	"strings"
)

const (
	// BundleMetadataKey holds the comma joined run modes of a bundle
	BundleMetadataKey = "run-modes"
	// ContentPackageMetadataKey holds the comma joined run modes of a content package
	ContentPackageMetadataKey = "runmodes"

	pidMarker      = ".runmodes."
	propertyMarker = ".runmodes:"
	factorySep     = "~"
)

var escapedColon = regexp.MustCompile(`[.][.](\w+)`)

// EncodeList joins run modes for metadata values. nil encodes to "".
func EncodeList(modes []string) string {
	return strings.Join(modes, ",")
}

// DecodeList splits a metadata value. An empty value yields nil.
func DecodeList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

// EncodePID appends the run mode suffix to pid. Without modes the pid is
// returned unchanged, colons included.
func EncodePID(pid string, modes []string) string {
	if len(modes) == 0 {
		return pid
	}
	encoded := pid + pidMarker + strings.Join(modes, ".")
	return strings.ReplaceAll(encoded, ":", "..")
}

// DecodePID restores the pid and its run modes. Colons are unescaped before
// the suffix is looked up.
func DecodePID(encoded string) (string, []string) {
	pid := escapedColon.ReplaceAllString(encoded, ":$1")
	idx := strings.Index(pid, pidMarker)
	if idx <= 0 {
		return pid, nil
	}
	return pid[:idx], strings.Split(pid[idx+len(pidMarker):], ".")
}

// EncodeFactoryPID builds factoryPid~name with the run modes carried by name
func EncodeFactoryPID(factoryPID, name string, modes []string) string {
	return factoryPID + factorySep + EncodePID(name, modes)
}

// DecodeFactoryPID splits factoryPid~name. ok is false for plain pids; only
// the name part is run mode decoded.
func DecodeFactoryPID(encoded string) (factoryPID, name string, modes []string, ok bool) {
	factoryPID, rest, found := strings.Cut(encoded, factorySep)
	if !found {
		return "", "", nil, false
	}
	name, modes = DecodePID(rest)
	return factoryPID, name, modes, true
}

// EncodeInternalKey rewrites a leading ":" to "..", which the feature model
// configurator does not accept in keys
func EncodeInternalKey(key string) string {
	if strings.HasPrefix(key, ":") {
		return ".." + key[1:]
	}
	return key
}

// DecodeInternalKey reverses EncodeInternalKey
func DecodeInternalKey(key string) string {
	if strings.HasPrefix(key, "..") {
		return ":" + key[2:]
	}
	return key
}

// EncodeFrameworkProperty appends the run mode suffix to a framework property key
func EncodeFrameworkProperty(key string, modes []string) string {
	if len(modes) == 0 {
		return key
	}
	return key + propertyMarker + strings.Join(modes, ",")
}

// DecodeFrameworkProperty restores the key and its run modes. The marker only
// counts when something precedes it.
func DecodeFrameworkProperty(encoded string) (string, []string) {
	idx := strings.Index(encoded, propertyMarker)
	if idx <= 0 {
		return encoded, nil
	}
	return encoded[:idx], strings.Split(encoded[idx+len(propertyMarker):], ",")
}

// Select applies the caller's override: when present it replaces whatever
// the item itself encoded.
func Select(override, encoded []string) []string {
	if len(override) > 0 {
		return override
	}
	if len(encoded) == 0 {
		return nil
	}
	return encoded
}
