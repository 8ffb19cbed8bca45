package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSeatReserveKey(t *testing.T) {
	key := BuildSeatReserveKey("0b6a7c1e-aaaa-bbbb-cccc-0123456789ab", "A1")

	assert.Equal(t, "cinebook:reserve:show:0b6a7c1e-aaaa-bbbb-cccc-0123456789ab:seat:A1", key)
	assert.NotEqual(t, key, BuildSeatReserveKey("0b6a7c1e-aaaa-bbbb-cccc-0123456789ab", "A2"))
}
