package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// entityNamespace scopes entity keys so they never collide with other
// name-based UUIDs.
var entityNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("charterline:entity"))

// NewEntityKey derives a stable entity key from the organization name and
// its creation timestamp. The name is case- and whitespace-normalized and the
// timestamp is taken in UTC, so the same submission always maps to the same key.
func NewEntityKey(organizationName string, createdAt time.Time) string {
	name := strings.Join(strings.Fields(strings.ToLower(organizationName)), " ")
	seed := name + "|" + createdAt.UTC().Format(time.RFC3339Nano)
	return uuid.NewSHA1(entityNamespace, []byte(seed)).String()
}
