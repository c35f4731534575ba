package replay

import (
	"errors"
	"fmt"
	"os"

	"riichienv/runtime/game/engines/mahjong"

	"gopkg.in/yaml.v3"
)

var ErrDiverged = errors.New("replay diverged")

/*
	回放日志：记录每局的开局场况、牌山和每一步的操作字符串
	同样的规则、牌山和操作序列必须得到同样的事件、奖励和可选操作，Verify 逐步比对
*/

type Log struct {
	MatchID string   `yaml:"match_id"`
	Seed    int64    `yaml:"seed"`
	Agents  []string `yaml:"agents"`
	Rules   RuleSet  `yaml:"rules"`
	Hands   []Hand   `yaml:"hands"`
}

// RuleSet 引擎参数的可序列化形式
type RuleSet struct {
	Rules         mahjong.Rules `yaml:"rules"`
	NumRounds     int           `yaml:"num_rounds"`
	StartingScore int           `yaml:"starting_score"`
	RiichiDeposit int           `yaml:"riichi_deposit"`
	NotenPool     int           `yaml:"noten_pool"`
	HonbaBonus    int           `yaml:"honba_bonus"`
	PaoRounding   string        `yaml:"pao_rounding"`
}

func RuleSetOf(opts mahjong.Options) RuleSet {
	return RuleSet{
		Rules:         opts.Rules,
		NumRounds:     opts.NumRounds,
		StartingScore: opts.StartingScore,
		RiichiDeposit: opts.RiichiDeposit,
		NotenPool:     opts.NotenPool,
		HonbaBonus:    opts.HonbaBonus,
		PaoRounding:   opts.PaoRounding.String(),
	}
}

func (r RuleSet) Options() mahjong.Options {
	return mahjong.Options{
		Rules:         r.Rules,
		NumRounds:     r.NumRounds,
		StartingScore: r.StartingScore,
		RiichiDeposit: r.RiichiDeposit,
		NotenPool:     r.NotenPool,
		HonbaBonus:    r.HonbaBonus,
		PaoRounding:   mahjong.ParsePaoRounding(r.PaoRounding),
	}
}

type Hand struct {
	Initial mahjong.RoundState `yaml:"initial"`
	Wall    []int              `yaml:"wall"`
	Legal   []string           `yaml:"legal"` // 开局时庄家的可选操作
	Steps   []Step             `yaml:"steps"`
	Events  []mahjong.Event    `yaml:"events"`
	Reason  string             `yaml:"reason"`
	Final   mahjong.RoundState `yaml:"final"`
}

type Step struct {
	Action  string     `yaml:"action"`
	Rewards [4]float64 `yaml:"rewards,flow"`
	Legal   []string   `yaml:"legal,omitempty,flow"` // 下一个决策者的可选操作
}

// Recorder 跟随 worker 的对局过程记录回放日志，不是并发安全的
type Recorder struct {
	log *Log
	cur *Hand
}

func NewRecorder(matchID string, seed int64, agents [4]string, opts mahjong.Options) *Recorder {
	return &Recorder{log: &Log{
		MatchID: matchID,
		Seed:    seed,
		Agents:  agents[:],
		Rules:   RuleSetOf(opts),
	}}
}

func (r *Recorder) BeginHand(initial mahjong.RoundState, wall []int, obs mahjong.Observation) {
	r.log.Hands = append(r.log.Hands, Hand{
		Initial: initial,
		Wall:    append([]int(nil), wall...),
		Legal:   mahjong.ActionStrings(obs.LegalActions),
	})
	r.cur = &r.log.Hands[len(r.log.Hands)-1]
}

func (r *Recorder) Step(a mahjong.Action, res mahjong.StepResult) {
	if r.cur == nil {
		return
	}
	r.cur.Steps = append(r.cur.Steps, Step{
		Action:  a.String(),
		Rewards: res.Rewards,
		Legal:   mahjong.ActionStrings(res.LegalActions),
	})
}

func (r *Recorder) EndHand(events []mahjong.Event, info mahjong.Info, final mahjong.RoundState) {
	if r.cur == nil {
		return
	}
	r.cur.Events = append([]mahjong.Event(nil), events...)
	r.cur.Reason = info.Reason
	r.cur.Final = final
	r.cur = nil
}

func (r *Recorder) Log() *Log {
	return r.log
}

func Save(path string, l *Log) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("序列化回放日志失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var l Log
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("解析回放日志失败: %w", err)
	}
	return &l, nil
}

// Verify 用新的引擎实例重放每一局，任何不一致都返回 ErrDiverged
func Verify(l *Log, evaluator mahjong.HandEvaluator, shanten mahjong.ShantenCalculator) error {
	env := mahjong.NewRiichiMahjong4p(l.Rules.Options(), evaluator, shanten)
	for hi := range l.Hands {
		h := &l.Hands[hi]
		initial := h.Initial
		obs, err := env.Reset(&initial, mahjong.WithWall(h.Wall))
		if err != nil {
			return fmt.Errorf("hand %d: reset: %w", hi, err)
		}
		if err := sameStrings(h.Legal, mahjong.ActionStrings(obs.LegalActions)); err != nil {
			return fmt.Errorf("%w: hand %d opening legal actions: %v", ErrDiverged, hi, err)
		}

		var res mahjong.StepResult
		for si, st := range h.Steps {
			res, err = env.StepString(st.Action)
			if err != nil && !errors.Is(err, mahjong.ErrEvaluatorRejected) {
				return fmt.Errorf("%w: hand %d step %d %s: %v", ErrDiverged, hi, si, st.Action, err)
			}
			if res.Rewards != st.Rewards {
				return fmt.Errorf("%w: hand %d step %d rewards %v, recorded %v", ErrDiverged, hi, si, res.Rewards, st.Rewards)
			}
			if err := sameStrings(st.Legal, mahjong.ActionStrings(res.LegalActions)); err != nil {
				return fmt.Errorf("%w: hand %d step %d legal actions: %v", ErrDiverged, hi, si, err)
			}
		}

		if !env.Done() {
			return fmt.Errorf("%w: hand %d not finished after %d steps", ErrDiverged, hi, len(h.Steps))
		}
		if reason := env.Info().Reason; reason != h.Reason {
			return fmt.Errorf("%w: hand %d reason %q, recorded %q", ErrDiverged, hi, reason, h.Reason)
		}
		if final := env.RoundState(); final != h.Final {
			return fmt.Errorf("%w: hand %d final state %+v, recorded %+v", ErrDiverged, hi, final, h.Final)
		}
		if err := sameEvents(h.Events, res.Events); err != nil {
			return fmt.Errorf("%w: hand %d events: %v", ErrDiverged, hi, err)
		}
	}
	return nil
}

func sameStrings(want, got []string) error {
	if len(want) != len(got) {
		return fmt.Errorf("got %v, recorded %v", got, want)
	}
	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf("got %v, recorded %v", got, want)
		}
	}
	return nil
}

// sameEvents 按 yaml 编码比较，空切片与 nil 视为相同
func sameEvents(want, got []mahjong.Event) error {
	if len(want) != len(got) {
		return fmt.Errorf("got %d events, recorded %d", len(got), len(want))
	}
	for i := range want {
		a, err := yaml.Marshal(want[i])
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(got[i])
		if err != nil {
			return err
		}
		if string(a) != string(b) {
			return fmt.Errorf("event %d: got %s, recorded %s", i, b, a)
		}
	}
	return nil
}
