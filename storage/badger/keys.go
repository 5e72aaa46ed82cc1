package badger

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/poiesic/graphseek/core"
)

// Key prefixes for different data types
const (
	blockRecordPrefix = "blkrec"
	blockEditPrefix   = "blkedit"
	pageRecordPrefix  = "pagrec"
	pageTitlePrefix   = "pagtitle"
)

// makeBlockKey generates a key for a block record by UID.
func makeBlockKey(uid core.UID) []byte {
	return []byte(blockRecordPrefix + ":" + string(uid))
}

// makeBlockEditKey generates a composite key for the edit-time index.
// Format: prefix:timestamp:uid
func makeBlockEditKey(editTime time.Time, uid core.UID) []byte {
	prefix := blockEditPrefix + ":"
	buf := make([]byte, len(prefix)+8+len(uid))
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(editTime.UnixMicro()))
	offset += 8
	copy(buf[offset:], uid)
	return buf
}

// makePartialBlockEditKey generates a partial key for edit-time range queries.
// Format: prefix:timestamp
func makePartialBlockEditKey(editTime time.Time) []byte {
	prefix := blockEditPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(editTime.UnixMicro()))
	return buf
}

// makePageKey generates a key for a page record by UID.
func makePageKey(uid core.UID) []byte {
	return []byte(pageRecordPrefix + ":" + string(uid))
}

// makePageTitleKey generates a key for the case-insensitive title index.
func makePageTitleKey(title string) []byte {
	return []byte(pageTitlePrefix + ":" + strings.ToLower(title))
}
