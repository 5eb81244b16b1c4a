package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.Contains(t, info.Platform, "/")
	assert.Equal(t, info.Version, info.String())
	assert.Contains(t, info.Full(), "mealguard "+info.Version)
	assert.Equal(t, "mealguard/"+info.Version, info.UserAgent())
}
