package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 32))
}

func TestSealOpenRoundTrip(t *testing.T) {
	box, err := NewBox(testKey())
	require.NoError(t, err)

	sealed, err := box.Seal([]byte("hunter2"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "hunter2")

	opened, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), opened)
}

func TestOpenRejectsTampering(t *testing.T) {
	box, err := NewBox(testKey())
	require.NoError(t, err)

	sealed, err := box.Seal([]byte("secret"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = box.Open(sealed)
	assert.Error(t, err)
}

func TestNewBoxRejectsBadKeys(t *testing.T) {
	_, err := NewBox("not base64!!!")
	assert.Error(t, err)

	short := base64.StdEncoding.EncodeToString([]byte("short"))
	_, err = NewBox(short)
	assert.Error(t, err)
}

func TestOpenRejectsTruncated(t *testing.T) {
	box, err := NewBox(testKey())
	require.NoError(t, err)

	_, err = box.Open([]byte("tiny"))
	assert.Error(t, err)
}
