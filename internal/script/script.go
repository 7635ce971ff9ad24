package script

import (
	"fmt"

	"github.com/Shopify/go-lua"
	"github.com/louisbranch/dicenotation/internal/dice"
)

const specTypeName = "dice.Spec"

// Runner evaluates dice scripts against a fixed source.
type Runner struct {
	source  dice.Source
	options []dice.ParseOption
}

// NewRunner creates a runner that rolls with source. A nil source uses the
// process-wide default at roll time.
func NewRunner(source dice.Source, opts ...dice.ParseOption) *Runner {
	return &Runner{source: source, options: opts}
}

// RunString runs code and returns the values the script returned.
func (r *Runner) RunString(code string) ([]any, error) {
	state := r.newState()
	if err := lua.LoadString(state, code); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	return r.call(state)
}

// RunFile runs the script at path and returns the values it returned.
func (r *Runner) RunFile(path string) ([]any, error) {
	state := r.newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	return r.call(state)
}

func (r *Runner) call(state *lua.State) ([]any, error) {
	if err := state.ProtectedCall(0, lua.MultipleReturns, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	top := state.Top()
	results := make([]any, 0, top)
	for i := 1; i <= top; i++ {
		results = append(results, luaToGo(state, i))
	}
	state.SetTop(0)
	return results, nil
}

func (r *Runner) newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	r.registerSpecType(state)
	r.registerDiceModule(state)
	return state
}

func (r *Runner) registerSpecType(state *lua.State) {
	lua.NewMetaTable(state, specTypeName)
	state.NewTable()
	lua.SetFunctions(state, r.specMethods(), 0)
	state.SetField(-2, "__index")
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "__tostring", Function: specToString},
		{Name: "__add", Function: specAdd},
		{Name: "__sub", Function: specSub},
	}, 0)
	state.Pop(1)
}

func (r *Runner) registerDiceModule(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "new", Function: r.diceNew},
		{Name: "faces", Function: r.diceFaces},
		{Name: "roll", Function: r.diceRoll},
	}, 0)
	state.SetGlobal("Dice")
}

func (r *Runner) specMethods() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "roll", Function: r.specRoll},
		{Name: "total", Function: r.specTotal},
		{Name: "notation", Function: specToString},
		{Name: "count", Function: specInt((*dice.Spec).Count)},
		{Name: "faces", Function: specInt((*dice.Spec).Faces)},
		{Name: "sets", Function: specInt((*dice.Spec).Sets)},
		{Name: "bonus", Function: specInt((*dice.Spec).Bonus)},
		{Name: "reroll", Function: specInt((*dice.Spec).Reroll)},
		{Name: "minimum", Function: specInt((*dice.Spec).Minimum)},
		{Name: "add", Function: specAdd},
		{Name: "sub", Function: specSub},
		{Name: "reroll_by", Function: specDerive((*dice.Spec).RerollBy)},
		{Name: "scale_count", Function: specScale((*dice.Spec).ScaleCount)},
		{Name: "scale_faces", Function: specScale((*dice.Spec).ScaleFaces)},
		{Name: "scale_sets", Function: specScale((*dice.Spec).ScaleSets)},
	}
}

func (r *Runner) diceNew(state *lua.State) int {
	notation := lua.CheckString(state, 1)
	minimum := lua.OptInteger(state, 2, 1)
	spec, err := dice.New(notation, minimum, r.options...)
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	pushSpec(state, spec)
	return 1
}

func (r *Runner) diceFaces(state *lua.State) int {
	faces := lua.CheckInteger(state, 1)
	minimum := lua.OptInteger(state, 2, 1)
	spec, err := dice.NewFaces(faces, minimum)
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	pushSpec(state, spec)
	return 1
}

func (r *Runner) diceRoll(state *lua.State) int {
	notation := lua.CheckString(state, 1)
	minimum := lua.OptInteger(state, 2, 1)
	spec, err := dice.New(notation, minimum, r.options...)
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	return r.pushRoll(state, spec, 1)
}

func (r *Runner) specRoll(state *lua.State) int {
	spec := checkSpec(state, 1)
	return r.pushRoll(state, spec, lua.OptInteger(state, 2, 1))
}

func (r *Runner) specTotal(state *lua.State) int {
	spec := checkSpec(state, 1)
	totals, err := r.roll(spec, lua.OptInteger(state, 2, 1))
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	sum := 0
	for _, total := range totals {
		sum += total
	}
	state.PushInteger(sum)
	return 1
}

func (r *Runner) pushRoll(state *lua.State, spec *dice.Spec, minimum int) int {
	totals, err := r.roll(spec, minimum)
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	state.CreateTable(len(totals), 0)
	for i, total := range totals {
		state.PushInteger(total)
		state.RawSetInt(-2, i+1)
	}
	return 1
}

func (r *Runner) roll(spec *dice.Spec, minimum int) ([]int, error) {
	source := r.source
	if source == nil {
		source = dice.DefaultSource()
	}
	return spec.Roll(source, minimum)
}

func pushSpec(state *lua.State, spec *dice.Spec) {
	state.PushUserData(spec)
	lua.SetMetaTableNamed(state, specTypeName)
}

func checkSpec(state *lua.State, index int) *dice.Spec {
	ud := lua.CheckUserData(state, index, specTypeName)
	if spec, ok := ud.(*dice.Spec); ok && spec != nil {
		return spec
	}
	lua.ArgumentError(state, index, "dice spec expected")
	return nil
}

func specToString(state *lua.State) int {
	state.PushString(checkSpec(state, 1).String())
	return 1
}

func specAdd(state *lua.State) int {
	spec := checkSpec(state, 1)
	pushSpec(state, spec.AddBonus(lua.CheckInteger(state, 2)))
	return 1
}

func specSub(state *lua.State) int {
	spec := checkSpec(state, 1)
	pushSpec(state, spec.SubBonus(lua.CheckInteger(state, 2)))
	return 1
}

func specInt(get func(*dice.Spec) int) lua.Function {
	return func(state *lua.State) int {
		state.PushInteger(get(checkSpec(state, 1)))
		return 1
	}
}

func specDerive(op func(*dice.Spec, int) *dice.Spec) lua.Function {
	return func(state *lua.State) int {
		spec := checkSpec(state, 1)
		pushSpec(state, op(spec, lua.CheckInteger(state, 2)))
		return 1
	}
}

func specScale(op func(*dice.Spec, int) dice.Scaled) lua.Function {
	return func(state *lua.State) int {
		spec := checkSpec(state, 1)
		result := op(spec, lua.CheckInteger(state, 2))
		pushSpec(state, result.Spec())
		state.PushBoolean(result.Changed())
		return 2
	}
}
