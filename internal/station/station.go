// Package station は tinker station 1 回分の recipe 適用を扱う。
//
// 適用は Idle → Matching → Validating → Accepted / Rejected と進む。
// 入力が recipe に一致しなければ NoMatch で終わり、呼び出し側は次の recipe を試す。
// Container は変更せず、受理された場合は新しい tool と消費後の入力を Result で返す。
package station

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/0x6d61/modforge/internal/recipe"
	"github.com/0x6d61/modforge/internal/tool"
	"github.com/0x6d61/modforge/pkg/schema"
)

// State は適用 1 回の状態。
type State int

const (
	StateIdle State = iota
	StateMatching
	StateValidating
	StateAccepted
	StateRejected
	StateNoMatch
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMatching:
		return "matching"
	case StateValidating:
		return "validating"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	case StateNoMatch:
		return "no_match"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Container は station の入力（tool スロットと入力スロット）。
type Container struct {
	Tool   *tool.Stack
	Inputs []schema.ItemStack
}

// Snapshot は recipe のマッチャーに渡す入力スナップショットを取り出す。
func Snapshot(c Container) []schema.ItemStack {
	return slices.Clone(c.Inputs)
}

// Result は適用 1 回の結果。
type Result struct {
	State State
	// Tool は受理時の新しい tool。それ以外は nil。
	Tool *tool.Stack
	// Inputs は受理時の消費後の入力スロット。
	Inputs []schema.ItemStack
	// ShrinkToolBy は受理時に tool スタックから消費する数。
	ShrinkToolBy int
	// Err は拒否理由（通常は *recipe.Rejection）。
	Err error
}

// Accepted は受理されたかを返す。
func (r Result) Accepted() bool { return r.State == StateAccepted }

// Station は recipe の適用を行う。Lookup と logger 以外の状態を持たないので並行利用可。
type Station struct {
	lookup *recipe.Lookup
	logger *slog.Logger
}

// New は Station を返す。logger が nil ならログを捨てる。
func New(lookup *recipe.Lookup, logger *slog.Logger) *Station {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Station{lookup: lookup, logger: logger}
}

// Modifiers は incremental の未完成レベルを除いた tool の modifier リストを返す。
func (s *Station) Modifiers(t tool.View) []schema.ModifierEntry {
	return recipe.ModifiersIgnoringPartial(t, s.lookup)
}

// Find は defs を順に試し、NoMatch 以外になった最初の recipe と結果を返す。
func (s *Station) Find(defs []*recipe.Definition, c Container) (*recipe.Definition, Result) {
	for _, d := range defs {
		if res := s.GetValidatedResult(d, c); res.State != StateNoMatch {
			return d, res
		}
	}
	return nil, Result{State: StateNoMatch}
}

// GetValidatedResult は d を c に適用した結果を返す。c は変更しない。
func (s *Station) GetValidatedResult(d *recipe.Definition, c Container) Result {
	a := attempt{station: s, def: d, state: StateIdle}
	res := a.run(c)
	switch res.State {
	case StateAccepted:
		s.logger.Debug("recipe accepted", "recipe", d.ID(), "result", d.Result().String())
	case StateRejected:
		args := []any{"recipe", d.ID(), "error", res.Err}
		if rej, ok := res.Err.(*recipe.Rejection); ok {
			args = append(args, "key", rej.Key)
		}
		s.logger.Debug("recipe rejected", args...)
	}
	return res
}

type attempt struct {
	station *Station
	def     *recipe.Definition
	state   State
}

func (a *attempt) to(next State) {
	a.station.logger.Debug("station transition", "recipe", a.def.ID(), "from", a.state.String(), "to", next.String())
	a.state = next
}

func (a *attempt) noMatch() Result {
	a.to(StateNoMatch)
	return Result{State: StateNoMatch}
}

func (a *attempt) rejected(err error) Result {
	a.to(StateRejected)
	return Result{State: StateRejected, Err: err}
}

func (a *attempt) accepted(t *tool.Stack, inputs []schema.ItemStack) Result {
	a.to(StateAccepted)
	return Result{State: StateAccepted, Tool: t, Inputs: inputs, ShrinkToolBy: a.def.ShrinkToolSlotBy()}
}

func (a *attempt) run(c Container) Result {
	d := a.def
	a.to(StateMatching)
	if c.Tool == nil || !d.Matches(c.Tool) {
		return a.noMatch()
	}

	inputs := Snapshot(c)
	crystal := d.MatchesCrystal(inputs)
	var assign []int
	if !crystal {
		var ok bool
		if assign, ok = d.MatchInputs(inputs); !ok {
			return a.noMatch()
		}
	}

	if inc, ok := d.Incremental(); ok {
		return a.applyIncremental(c.Tool, inc, inputs, assign, crystal)
	}

	a.to(StateValidating)
	if err := d.Validate(c.Tool); err != nil {
		return a.rejected(err)
	}
	out, err := a.addLevel(c.Tool)
	if err != nil {
		return a.rejected(err)
	}
	if crystal {
		inputs = shrinkCrystal(inputs, d.Result().Level)
	} else {
		ingredients := d.Inputs()
		for slot, i := range assign {
			if i >= 0 {
				inputs[slot] = inputs[slot].Shrink(ingredients[i].Count)
			}
		}
	}
	return a.accepted(out, inputs)
}

// addLevel は result を 1 回分加え、スロットを消費した tool のコピーを返す。
func (a *attempt) addLevel(t *tool.Stack) (*tool.Stack, error) {
	result := a.def.Result()
	out := t.Copy()
	if err := out.AddModifier(result.ID, result.Level); err != nil {
		return nil, err
	}
	if slots, ok := a.def.Slots(); ok {
		if err := out.ConsumeSlots(slots.Type, slots.Count); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// applyIncremental は incremental modifier を適用する。
//
// modifier がないか現在レベルの進捗が満了していれば新しいレベルを開始し、
// その場合だけ前提条件を検証してスロットを消費する。入力は必要量の分だけ消費する。
func (a *attempt) applyIncremental(t *tool.Stack, inc recipe.Incremental, inputs []schema.ItemStack, assign []int, crystal bool) Result {
	d := a.def
	result := d.Result()
	needed := inc.NeededPerLevel

	level := t.ModifierLevel(result.ID)
	current := 0
	if level > 0 {
		if v, ok := t.Ledger(result.ID); ok {
			current = v
		} else {
			current = needed
		}
	}

	out := t.Copy()
	if level == 0 || current >= needed {
		a.to(StateValidating)
		if err := recipe.ValidatePrerequisites(d, t, level+result.Level); err != nil {
			return a.rejected(err)
		}
		var err error
		if out, err = a.addLevel(t); err != nil {
			return a.rejected(err)
		}
		current = 0
	}

	remaining := needed - current
	if crystal {
		inputs = shrinkCrystal(inputs, result.Level)
		current = needed
	} else {
		gain := min(d.AvailableAmount(inputs), remaining)
		items := (gain + inc.AmountPerItem - 1) / inc.AmountPerItem
		for slot, i := range assign {
			if i < 0 || items == 0 {
				continue
			}
			take := min(items, inputs[slot].Count)
			inputs[slot] = inputs[slot].Shrink(take)
			items -= take
		}
		current += gain
	}
	if err := out.SetLedger(result.ID, current); err != nil {
		return a.rejected(err)
	}
	return a.accepted(out, inputs)
}

func shrinkCrystal(inputs []schema.ItemStack, n int) []schema.ItemStack {
	for i := range inputs {
		if inputs[i].IsCrystal() {
			inputs[i] = inputs[i].Shrink(n)
			break
		}
	}
	return inputs
}
