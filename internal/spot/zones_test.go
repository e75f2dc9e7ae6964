package spot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeZone(t *testing.T) {
	assert.Equal(t, "NO3", NormalizeZone("NO3"))
	assert.Equal(t, "NO2", NormalizeZone("no2"))
	assert.Equal(t, "NO5", NormalizeZone(" NO5 "))

	// Unknown zones fall back to the default instead of failing the request.
	assert.Equal(t, "NO1", NormalizeZone("NO9"))
	assert.Equal(t, "NO1", NormalizeZone(""))
	assert.Equal(t, "NO1", NormalizeZone("SE4"))
}
