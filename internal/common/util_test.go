package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWipeByteArray(t *testing.T) {
	password := []byte("s3cret-pass")
	WipeByteArray(password)
	assert.Equal(t, make([]byte, len("s3cret-pass")), password)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}
