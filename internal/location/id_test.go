package location_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"planets-procgen/internal/location"
	"planets-procgen/internal/shared/errors"
)

// TestHashKnownVectors pins identifiers against values produced by the EVM for
// keccak256(abi.encode(int32 x, int32 y)).
func TestHashKnownVectors(t *testing.T) {
	cases := []struct {
		coords location.Coords
		want   string
	}{
		{location.Coords{X: 0, Y: 0}, "ad3228b676f7d3cd4284a5443f17f1962b36e491b30a40b2405849e597ba5fb5"},
		{location.Coords{X: 12, Y: 71}, "377f1d7732616aa18246aad43b6aac045f44803c4d54c7653eb9dae88abdcfc1"},
		{location.Coords{X: -7000, Y: -6000}, "419b741192cb41e5a7ee0ba1cf30db2ac8336ad4a202af63dd2827a8518ccc2d"},
		{location.Coords{X: 530, Y: 508}, "0050db69d828aba3946a86c649c9747ef63e02abdcfa2591340e753f621f0c57"},
	}

	for _, tc := range cases {
		t.Run(tc.coords.String(), func(t *testing.T) {
			id, err := location.Hash(tc.coords)
			require.NoError(t, err)
			require.Equal(t, tc.want, id.Hex())
		})
	}
}

// TestHashDeterministic: equal inputs always produce equal identifiers.
func TestHashDeterministic(t *testing.T) {
	c := location.Coords{X: -123456, Y: 987654}
	a, err := location.Hash(c)
	require.NoError(t, err)
	b, err := location.Hash(c)
	require.NoError(t, err)
	require.True(t, a.Equal(b))
}

// TestHashOutOfRange rejects components outside int32 instead of truncating.
func TestHashOutOfRange(t *testing.T) {
	for _, c := range []location.Coords{
		{X: math.MaxInt32 + 1, Y: 0},
		{X: 0, Y: math.MinInt32 - 1},
	} {
		_, err := location.Hash(c)
		require.Error(t, err)
		require.Equal(t, errors.ErrorTypeOutOfRange, errors.GetType(err))
	}

	_, err := location.Hash(location.Coords{X: math.MinInt32, Y: math.MaxInt32})
	require.NoError(t, err, "int32 bounds are inclusive")
}

func TestPackWordsSignExtends(t *testing.T) {
	buf := location.PackWords(-1, 1)
	require.Len(t, buf, 64)
	for i := 0; i < 32; i++ {
		require.Equal(t, byte(0xff), buf[i])
	}
	for i := 32; i < 63; i++ {
		require.Equal(t, byte(0), buf[i])
	}
	require.Equal(t, byte(1), buf[63])
}

func TestParseIDAndByteRange(t *testing.T) {
	id, err := location.ParseID("0x377f1d7732616aa18246aad43b6aac045f44803c4d54c7653eb9dae88abdcfc1")
	require.NoError(t, err)

	require.Equal(t, uint64(0x32616a), id.ByteRange(4, 7))
	require.Equal(t, uint64(0x82), id.ByteRange(8, 9))

	short, err := location.ParseID("ff")
	require.NoError(t, err)
	require.Equal(t, uint64(0xff), short.ByteRange(31, 32))

	_, err = location.ParseID("zz")
	require.Error(t, err)
	require.Panics(t, func() { id.ByteRange(0, 9) })
}

func TestIDOrderingAndJSON(t *testing.T) {
	low, err := location.ParseID("01")
	require.NoError(t, err)
	high, err := location.ParseID("02")
	require.NoError(t, err)
	require.True(t, low.Less(high))
	require.False(t, high.Less(low))
	require.True(t, high.Less(location.UpperBound))

	payload, err := json.Marshal(struct {
		ID location.ID `json:"id"`
	}{ID: low})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"0x0000000000000000000000000000000000000000000000000000000000000001"}`, string(payload))

	var decoded struct {
		ID location.ID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.True(t, decoded.ID.Equal(low))
}
