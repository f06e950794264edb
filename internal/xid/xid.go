package xid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// New returns prefix-YYYYMMDD-<random hex>. Ids from the same day share a
// sortable date segment; the clock is only used if crypto/rand fails.
func New(prefix string) string {
	now := time.Now().UTC()
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%s-%d", prefix, now.Format("20060102"), now.UnixNano())
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), hex.EncodeToString(buf))
}
