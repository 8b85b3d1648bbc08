package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBindingRoundTrip(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetBinding("telegram", "12345")
	assert.ErrorIs(t, err, ErrUnbound)

	require.NoError(t, st.PutBinding(Binding{
		Channel:  "telegram",
		SenderID: "12345",
		AgentID:  "agent-1",
		BotName:  "shared_bot",
	}))

	b, err := st.GetBinding("telegram", "12345")
	require.NoError(t, err)
	assert.Equal(t, "agent-1", b.AgentID)
	assert.Equal(t, "shared_bot", b.BotName)

	require.NoError(t, st.DeleteBinding("telegram", "12345"))
	_, err = st.GetBinding("telegram", "12345")
	assert.ErrorIs(t, err, ErrUnbound)
}

func TestBindingReplacedOnRebind(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.PutBinding(Binding{Channel: "telegram", SenderID: "1", AgentID: "a"}))
	require.NoError(t, st.PutBinding(Binding{Channel: "telegram", SenderID: "1", AgentID: "b"}))

	b, err := st.GetBinding("telegram", "1")
	require.NoError(t, err)
	assert.Equal(t, "b", b.AgentID)
}

func TestBindingsAreScopedByChannel(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.PutBinding(Binding{Channel: "telegram", SenderID: "1", AgentID: "a"}))

	_, err := st.GetBinding("discord", "1")
	assert.ErrorIs(t, err, ErrUnbound)
}

func TestPairingCodeSingleUse(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.CreatePairingCode("ABC234", "agent-1", time.Minute))

	agentID, err := st.ConsumePairingCode("ABC234")
	require.NoError(t, err)
	assert.Equal(t, "agent-1", agentID)

	_, err = st.ConsumePairingCode("ABC234")
	assert.Error(t, err)
}

func TestPairingCodeExpiry(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.CreatePairingCode("XYZ789", "agent-1", -time.Second))

	_, err := st.ConsumePairingCode("XYZ789")
	assert.Error(t, err)
}

func TestUnknownPairingCode(t *testing.T) {
	st := openTestStore(t)
	_, err := st.ConsumePairingCode("NOPE99")
	assert.Error(t, err)
}

func TestScheduleRoundTrip(t *testing.T) {
	st := openTestStore(t)
	sc := Schedule{
		ID:         "s1",
		AgentID:    "agent-1",
		Name:       "morning briefing",
		Expression: "@every 1h",
		Prompt:     "summarize my portfolio [[PORTFOLIO]]",
		Enabled:    true,
	}
	require.NoError(t, st.PutSchedule(sc))

	got, err := st.GetSchedule("s1")
	require.NoError(t, err)
	assert.Equal(t, sc.Prompt, got.Prompt)
	assert.True(t, got.Enabled)
	assert.True(t, got.LastRun.IsZero())

	_, err = st.GetSchedule("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSchedulesByAgent(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.PutSchedule(Schedule{ID: "s1", AgentID: "a", Expression: "@hourly", Prompt: "p"}))
	require.NoError(t, st.PutSchedule(Schedule{ID: "s2", AgentID: "b", Expression: "@hourly", Prompt: "p"}))

	all, err := st.ListSchedules("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := st.ListSchedules("a")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "s1", mine[0].ID)
}

func TestMarkScheduleRun(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.PutSchedule(Schedule{ID: "s1", AgentID: "a", Expression: "@hourly", Prompt: "p", Enabled: true}))

	at := time.Now().Truncate(time.Second)
	require.NoError(t, st.MarkScheduleRun("s1", at, "all good"))

	got, err := st.GetSchedule("s1")
	require.NoError(t, err)
	assert.Equal(t, "all good", got.LastResult)
	assert.WithinDuration(t, at, got.LastRun, time.Second)

	assert.ErrorIs(t, st.MarkScheduleRun("missing", at, "x"), ErrNotFound)
}
