package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_InRange(t *testing.T) {
	ts := Timestamp(1_500_000_000)
	assert.True(t, ts.InRange())
	assert.Equal(t, "2017-07-14T02:40:00Z", ts.String())
	assert.Equal(t, time.Unix(1_500_000_000, 0).UTC(), ts.Time())

	b, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2017-07-14T02:40:00Z"`, string(b))
}

func TestTimestamp_OutOfRange(t *testing.T) {
	for _, ts := range []Timestamp{MaxTime + 1, math.MaxInt64, math.MaxUint64} {
		assert.False(t, ts.InRange())
		// время не уходит в отрицательные значения
		assert.Equal(t, MaxTime.Time(), ts.Time())
		assert.Equal(t, 9999, ts.Time().Year())

		b, err := json.Marshal(ts)
		require.NoError(t, err)
		assert.Equal(t, `"`+ts.String()+`"`, string(b))
	}
	assert.Equal(t, "18446744073709551615", Timestamp(math.MaxUint64).String())
	assert.Equal(t, "9999-12-31T23:59:59Z", MaxTime.String())
}

func TestItem_Attr(t *testing.T) {
	v := "alice"
	it := Item{Attributes: []Attribute{
		{Name: "username_value", Kind: AttributeString, Text: &v},
		{Name: "port", Kind: AttributeUint32, Int: 993, IntHash: 7},
	}}
	require.NotNil(t, it.Attr("port"))
	assert.Equal(t, uint32(993), it.Attr("port").Value())
	assert.Equal(t, uint32(7), it.Attr("port").Hash())
	assert.Equal(t, "alice", it.Attr("username_value").Value())
	assert.Nil(t, it.Attr("username_value").Hash())
	assert.Nil(t, it.Attr("missing"))
}
