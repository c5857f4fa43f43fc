package redis

import (
	"fmt"

	"github.com/typeracehq/typerace/internal/model"
)

// Key prefix for all typerace data
const keyPrefix = "typerace"

// roomKeyPattern matches all room keys, for SCAN-based enumeration
const roomKeyPattern = keyPrefix + ":room:*"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// paragraphKey returns the Redis key for a Paragraph
func paragraphKey(id model.ParagraphID) string {
	return fmt.Sprintf("%s:paragraph:%s", keyPrefix, id)
}

// paragraphIndexKey returns the Redis key for the SET of paragraph IDs
func paragraphIndexKey() string {
	return fmt.Sprintf("%s:idx:paragraphs", keyPrefix)
}
