package order

import (
	"fmt"
	"strings"

	"github.com/jaevor/go-nanoid"
)

const (
	ReferencePrefix = "FUE_"

	placeholderEmailDomain = "fuelease.gh"
)

var referenceSuffix = mustHexID(8)

func mustHexID(length int) func() string {
	gen, err := nanoid.CustomASCII("0123456789abcdef", length)
	if err != nil {
		panic(err)
	}
	return gen
}

// NewReference builds FUE_<order id>_<8 hex>. The order id keeps it unique
// across orders; the suffix keeps it unguessable.
func NewReference(orderID int64) string {
	return fmt.Sprintf("%s%d_%s", ReferencePrefix, orderID, referenceSuffix())
}

func HasReferencePrefix(reference string) bool {
	return strings.HasPrefix(reference, ReferencePrefix)
}

// PlaceholderEmail gives the gateway a syntactically valid address for
// orders placed without one.
func PlaceholderEmail(orderID int64) string {
	return fmt.Sprintf("customer%d@%s", orderID, placeholderEmailDomain)
}

// TestReference is used by the gateway connectivity check and never matches
// ReferencePrefix, so webhooks for it are ignored.
func TestReference() string {
	return "TEST_" + referenceSuffix()
}
