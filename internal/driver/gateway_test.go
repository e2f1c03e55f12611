package driver

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation(t *testing.T) {
	o := ResolveLocation("Europe/Monaco")
	require.Equal(t, Success, o.Class)
	assert.Equal(t, "Europe/Monaco", o.Value.String())

	o = ResolveLocation("")
	require.Equal(t, Success, o.Class)
	assert.Equal(t, time.UTC, o.Value)

	for _, name := range []string{"Mars/Olympus_Mons", "Local", "not a zone"} {
		o := ResolveLocation(name)
		assert.Equal(t, InvalidInput, o.Class, name)
		assert.Equal(t, "invalid timezone: "+name, o.Detail)
	}
}
