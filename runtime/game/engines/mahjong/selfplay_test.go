package mahjong

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"riichienv/core/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 随机自对弈：每一步都检查牌数守恒、点数守恒（含场上立直棒）和操作字符串可逆
func TestRandomSelfPlayInvariants(t *testing.T) {
	for seed := int64(1); seed <= 4; seed++ {
		opts := DefaultOptions()
		opts.Seed = seed
		eg := newTestEngine(opts)
		rng := rand.New(rand.NewSource(seed))

		var state *RoundState
		for hand := 0; hand < 24; hand++ {
			obs, err := eg.Reset(state)
			require.NoError(t, err)
			before := eg.RoundState()

			for steps := 0; !eg.Done(); steps++ {
				require.Less(t, steps, 2000, "seed %d hand %d did not terminate", seed, hand)
				require.NotEmpty(t, obs.LegalActions)
				for _, a := range obs.LegalActions {
					parsed, err := ParseAction(a.String())
					require.NoError(t, err)
					require.Equal(t, a, parsed)
				}
				a := obs.LegalActions[rng.Intn(len(obs.LegalActions))]
				res, err := eg.Step(a)
				require.NoError(t, err, "seed %d hand %d action %s", seed, hand, a)
				require.NoError(t, eg.CheckTileConservation())
				assert.Equal(t, 4*opts.StartingScore, totalPoints(eg), "seed %d hand %d", seed, hand)
				obs = res.Observation
			}

			_, err = eg.Step(Pass)
			require.ErrorIs(t, err, ErrHandFinished)
			reason := eg.Info().Reason
			require.False(t, strings.HasPrefix(reason, reasonAgariError), reason)

			after := eg.RoundState()
			if after.Dealer == before.Dealer {
				assert.Equal(t, before.Honba+1, after.Honba, "renchan adds honba: %s", reason)
				assert.Equal(t, before.Round, after.Round)
			} else {
				assert.Equal(t, (before.Dealer+1)%4, after.Dealer)
				assert.Equal(t, before.Round+1, after.Round)
				assert.Equal(t, 0, after.Honba)
			}
			if eg.Info().GameOver {
				break
			}
			state = &after
		}
	}
}

func totalPoints(eg *RiichiMahjong4p) int {
	sum := eg.Situation.RiichiSticks * eg.opts.RiichiDeposit
	for _, s := range eg.Situation.Scores {
		sum += s
	}
	return sum
}

type memGameRepo struct {
	games  []*entity.GameRecord
	rounds []*entity.RoundRecord
}

func (r *memGameRepo) SaveGameRecord(_ context.Context, record *entity.GameRecord) error {
	r.games = append(r.games, record)
	return nil
}

func (r *memGameRepo) FindGameRecord(context.Context, primitive.ObjectID) (*entity.GameRecord, error) {
	return nil, nil
}

func (r *memGameRepo) FindGameRecordByMatch(context.Context, string) (*entity.GameRecord, error) {
	return nil, nil
}

func (r *memGameRepo) FindGameRecordsByAgent(context.Context, string, int, int) ([]*entity.GameRecord, error) {
	return nil, nil
}

func (r *memGameRepo) SaveRoundRecord(_ context.Context, round *entity.RoundRecord) error {
	r.rounds = append(r.rounds, round)
	return nil
}

func (r *memGameRepo) SaveRoundRecords(_ context.Context, rounds []*entity.RoundRecord) error {
	r.rounds = append(r.rounds, rounds...)
	return nil
}

func (r *memGameRepo) FindRoundRecords(context.Context, primitive.ObjectID) ([]*entity.RoundRecord, error) {
	return r.rounds, nil
}

func TestPersisterRecordsHand(t *testing.T) {
	opts := DefaultOptions()
	opts.Rules.HasAkaDora = false
	eg := newTestEngine(opts)
	repo := &memGameRepo{}
	gp := NewGamePersister(repo, "match-1", [4]string{"a", "b", "c", "d"}, 5)
	eg.SetPersister(gp)

	_, err := eg.Reset(nil, WithWall(simpleTsumoWall(t)))
	require.NoError(t, err)
	res, err := eg.Step(Tsumo)
	require.NoError(t, err)

	rr := gp.CurrentRound()
	require.NotNil(t, rr)
	require.True(t, rr.Completed())
	assert.Equal(t, eg.Wall(), rr.Wall)
	assert.Len(t, rr.Events, len(res.Events))
	assert.Equal(t, string(EventInit), rr.Events[0].EventType)
	assert.Equal(t, "East", rr.RoundWind)

	result := rr.RoundResult
	assert.Equal(t, entity.EndTypeAgari, result.EndType)
	assert.Equal(t, [4]int{3000, -1000, -1000, -1000}, result.Delta)
	assert.Equal(t, 0, result.NextDealer)
	require.Len(t, result.Claims, 1)
	claim := result.Claims[0]
	assert.Equal(t, 0, claim.WinnerSeat)
	assert.Equal(t, -1, claim.LoserSeat)
	assert.Equal(t, 54, claim.WinTile)
	assert.Equal(t, 2, claim.Han)
	assert.Equal(t, 30, claim.Fu)
	assert.Equal(t, 3000, claim.Points)
	assert.Equal(t, -1, claim.PaoSeat)
	assert.Len(t, claim.Yaku, 2)

	require.NoError(t, gp.FinalizeGame(context.Background(), eg.Situation.Scores, false))
	require.Len(t, repo.games, 1)
	require.Len(t, repo.rounds, 1)
	g := repo.games[0]
	assert.Equal(t, entity.GameStatusCompleted, g.Status)
	assert.Equal(t, 1, g.RoundCount)
	assert.Equal(t, "a", g.FinalResult.Rankings[0].AgentName)
	assert.Equal(t, 1, g.FinalResult.Rankings[0].Rank)

	// 已结束后不再接收事件，也不会重复写库
	gp.Record(Event{Type: EventDraw})
	require.NoError(t, gp.FinalizeGame(context.Background(), eg.Situation.Scores, false))
	assert.Len(t, repo.games, 1)
	assert.Len(t, rr.Events, len(res.Events))
}
