package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestProcessMessage_DecodesMsgpack(t *testing.T) {
	launchedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	in := MatchLaunched{Team1ID: 1, Team2ID: 2, Coach1ID: 10, Coach2ID: 20, GameID: 99, LaunchedAt: launchedAt}
	data, err := msgpack.Marshal(in)
	require.NoError(t, err)

	var out MatchLaunched
	require.NoError(t, Nop{}.ProcessMessage(data, &out))
	assert.Equal(t, 99, out.GameID)
	assert.True(t, launchedAt.Equal(out.LaunchedAt))
}

func TestProcessMessage_RejectsGarbage(t *testing.T) {
	var out BlackboxRound
	assert.Error(t, Nop{}.ProcessMessage([]byte{0xc1}, &out))
}

func TestMock_RecordsCalls(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.SendMessage(EventBlackboxRound, BlackboxRound{ID: "r1"}))

	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, EventBlackboxRound, calls[0].Topic)
	m.Reset()
	assert.Empty(t, m.Calls())
}
