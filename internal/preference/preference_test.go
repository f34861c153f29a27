package preference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReaderMode(t *testing.T) {
	store := NewMemoryStore()
	rm := ReaderMode{Store: store}

	assert.False(t, rm.Enabled(), "off by default")

	rm.Set(true)
	assert.True(t, rm.Enabled())
	v, _ := store.Get(ReaderModeKey)
	assert.Equal(t, "on", v)

	assert.False(t, rm.Toggle())
	v, _ = store.Get(ReaderModeKey)
	assert.Equal(t, "off", v)

	assert.True(t, rm.Toggle())
}

func TestReaderMode_UnknownValueIsOff(t *testing.T) {
	store := NewMemoryStore()
	store.Set(ReaderModeKey, "yes")

	assert.False(t, ReaderMode{Store: store}.Enabled())
}

func TestReaderMode_NilStore(t *testing.T) {
	rm := ReaderMode{}
	rm.Set(true)
	assert.False(t, rm.Enabled())
}
