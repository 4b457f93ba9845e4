// Package token encodes change tokens. A token is the zone change feed's
// last delivered sequence number; clients treat it as an opaque byte string.
package token

import (
	"encoding/binary"

	"github.com/akarpov88/petkeeper/internal/common"
)

const size = 8

// Encode packs a feed sequence number into an opaque token.
func Encode(seq int64) []byte {
	buf := make([]byte, size)
	binary.BigEndian.PutUint64(buf, uint64(seq))
	return buf
}

// Decode unpacks a client token back into a sequence number. An empty token
// decodes to zero, meaning "from the beginning". Malformed tokens are
// reported as expired so clients fall back to a full fetch instead of
// failing outright.
func Decode(tok []byte) (int64, error) {
	if len(tok) == 0 {
		return 0, nil
	}
	if len(tok) != size {
		return 0, common.ErrTokenExpired
	}
	return int64(binary.BigEndian.Uint64(tok)), nil
}
