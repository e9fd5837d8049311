package payment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewReference builds a globally unique payment reference that embeds the
// identifier as a parseable suffix. The webhook path recovers the identifier
// purely from this string, so the layout is load-bearing.
func NewReference(identifier string) string {
	unique := strings.ReplaceAll(uuid.NewString(), "-", "")
	return unique + "_" + identifier
}

// ParseReference recovers the identifier from a reference produced by
// NewReference.
func ParseReference(reference string) (string, error) {
	parts := strings.SplitN(reference, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("malformed payment reference %q", reference)
	}
	return parts[1], nil
}
