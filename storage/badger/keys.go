package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for different data types
const (
	manifestPrefix    = "manver"
	manifestLatestKey = "manverlatest"
	graphPrefix       = "graphver"
)

// makeManifestKey generates a composite key for a manifest version.
// Format: prefix:jobID:version, with the version BigEndian-encoded so
// lexicographic iteration walks versions in order.
func makeManifestKey(jobID string, version uint64) []byte {
	prefix := fmt.Sprintf("%s:%s:", manifestPrefix, jobID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], version)
	return buf
}

// makeManifestPrefix generates the iteration prefix for one job's versions.
func makeManifestPrefix(jobID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", manifestPrefix, jobID))
}

// makeManifestLatestKey generates the key holding a job's latest version number.
func makeManifestLatestKey(jobID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", manifestLatestKey, jobID))
}

// makeGraphKey generates a key for a graph by video id and version.
func makeGraphKey(videoID, version string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", graphPrefix, videoID, version))
}

// makeGraphPrefix generates the iteration prefix for one video's graphs.
func makeGraphPrefix(videoID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", graphPrefix, videoID))
}
