package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarFileNameKeepsExtension(t *testing.T) {
	name, err := avatarFileName("me.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.Len(t, name, 32+len(".png"))
}

func TestAvatarFileNameRandomizesName(t *testing.T) {
	first, err := avatarFileName("a.jpg")
	require.NoError(t, err)
	second, err := avatarFileName("a.jpg")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestAvatarFileNameRejectsNonImages(t *testing.T) {
	for _, original := range []string{"payload.exe", "script.sh", "noext", "archive.tar.gz"} {
		_, err := avatarFileName(original)
		assert.Error(t, err, original)
	}
}
