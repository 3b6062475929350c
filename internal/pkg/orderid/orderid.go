package orderid

import (
	"strings"

	"github.com/google/uuid"
)

const tokenLength = 10

// alphabet excludes 0/O and 1/I to keep order IDs readable in support chats.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// New generates an order identifier of the form PREFIX-XXXXXXXXXX. The
// prefix identifies the game catalog (e.g. MCGG, MLBB), the suffix is random.
func New(prefix string) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = "ORD"
	}

	u := uuid.New()
	var b strings.Builder
	b.Grow(len(prefix) + 1 + tokenLength)
	b.WriteString(prefix)
	b.WriteByte('-')
	for i := 0; i < tokenLength; i++ {
		b.WriteByte(alphabet[int(u[i])%len(alphabet)])
	}
	return b.String()
}
