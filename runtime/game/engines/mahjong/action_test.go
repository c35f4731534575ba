package mahjong

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	cases := []struct {
		in   string
		want Action
	}{
		{"DISCARD_0", Discard(0)},
		{"DISCARD_135", Discard(135)},
		{"ACTION_TSUMO", Tsumo},
		{"ACTION_RON", Ron},
		{"ACTION_PASS", Pass},
		{"ACTION_PUNG", Pung},
		{"ACTION_DAIMINKAN", Daiminkan},
		{"ACTION_KYUUSHU_KYUUHAI", Kyuushu},
		{"ACTION_RIICHI_17", Riichi(17)},
		{"ACTION_ANKAN_36", Ankan(36)},
		{"ACTION_KAKAN_101", Kakan(101)},
		{"ACTION_CHII_3_5", Chii(3, 5)},
	}
	for _, tc := range cases {
		got, err := ParseAction(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.in, got.String())
	}
}

func TestParseActionRejects(t *testing.T) {
	for _, in := range []string{
		"", "DISCARD_", "DISCARD_136", "DISCARD_-1", "ACTION_", "ACTION_FOO",
		"ACTION_RIICHI", "ACTION_ANKAN_x", "ACTION_CHII_5_3", "ACTION_CHII_1", "ACTION_CHII_33_34", "chii",
	} {
		_, err := ParseAction(in)
		assert.ErrorIs(t, err, ErrInvalidAction, "%q", in)
	}
}

func TestPriorityOrder(t *testing.T) {
	assert.Greater(t, ActionRon.priority(), ActionPung.priority())
	assert.Equal(t, ActionPung.priority(), ActionDaiminkan.priority())
	assert.Greater(t, ActionDaiminkan.priority(), ActionChii.priority())
	assert.Greater(t, ActionChii.priority(), ActionPass.priority())
}

func TestFilterByClaimKeepsPass(t *testing.T) {
	actions := []Action{Pass, Ron, Pung, Daiminkan, Chii(1, 2)}
	assert.Equal(t, actions, filterByClaim(actions, 0))
	assert.Equal(t, []Action{Pass, Ron, Pung, Daiminkan}, filterByClaim(actions, 1))
	assert.Equal(t, []Action{Pass, Ron}, filterByClaim(actions, 2))
	assert.Equal(t, []Action{Pass}, filterByClaim(actions, 3))
}

func TestTurnManagerPolling(t *testing.T) {
	tm := NewTurnManager(0)
	tm.EnterCallPhase(2, false)
	var order []int
	for {
		s, ok := tm.NextReactor()
		if !ok {
			break
		}
		order = append(order, s)
	}
	assert.Equal(t, []int{3, 0, 1}, order)
	assert.Equal(t, 0, tm.BestPriority())

	tm.Record(3, Chii(1, 2))
	assert.Equal(t, 1, tm.BestPriority())
	assert.True(t, tm.Allows(ActionPass))
	assert.False(t, tm.Allows(ActionDiscard))

	require.Error(t, tm.EnterDiscardPhase(4))
	require.NoError(t, tm.EnterDiscardPhase(1))
	assert.Nil(t, tm.Claim())
	assert.Equal(t, 1, tm.GetCurrentPlayer())
}
