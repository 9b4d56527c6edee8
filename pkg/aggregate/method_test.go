// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package aggregate

import (
	"encoding/json"
	"testing"

	"github.com/netrace/netrace/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodByName(t *testing.T) {
	for _, x := range []struct {
		name string
		want Method
	}{{"ADD", Add}, {"add", Add}, {"SPLITFACTOR", SplitFactor}, {"SplitFactor", SplitFactor}} {
		t.Run(x.name, func(t *testing.T) {
			m, err := MethodByName(x.name)
			require.NoError(t, err)
			assert.Equal(t, x.want, m)
		})
	}
	_, err := MethodByName("MULTIPLY")
	assert.True(t, network.IsErrorType[ConfigError](err))
	assert.EqualError(t, err, `invalid aggregate method: "MULTIPLY", expecting one of [ADD SPLITFACTOR]`)
}

func TestMethods(t *testing.T) {
	assert.Equal(t, 3.0, Add.Seed(3, 2, 2))
	assert.Equal(t, 0.25, SplitFactor.Seed(3, 0, 4))
	assert.Equal(t, 0.0, SplitFactor.Seed(3, 1, 4))
	assert.Equal(t, 0.0, SplitFactor.Seed(3, 0, 0))
	assert.Equal(t, 5.0, Add.Combine(2, 3))
	v, err := Add.Distribute(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
	_, err = SplitFactor.Distribute(3, 0)
	assert.True(t, network.IsErrorType[InvariantError](err))
	assert.True(t, Add.SupportsUpstream())
	assert.False(t, SplitFactor.SupportsUpstream())
}

func TestFloat(t *testing.T) {
	for _, x := range []struct {
		in   any
		want float64
	}{
		{nil, 0}, {1, 1}, {int64(2), 2}, {uint8(3), 3}, {float32(.5), .5}, {1.5, 1.5},
		{json.Number("2.25"), 2.25}, {"7", 7}, {" 8.5 ", 8.5}, {"", 0},
	} {
		got, err := Float(x.in)
		require.NoError(t, err, "%#v", x.in)
		assert.Equal(t, x.want, got, "%#v", x.in)
	}
	for _, bad := range []any{"x", true, []int{1}} {
		_, err := Float(bad)
		assert.Error(t, err, "%#v", bad)
	}
}
