package localstore

import (
	"fmt"
	"reflect"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/commands"
	"github.com/leanovate/gopter/gen"
)

type expected struct {
	entries map[uint]uint
}

type system struct {
	s        *Store
	cmdCount int
}

const (
	keySpace = 32
	absent   = uint(1 << 20)
)

var (
	cmdCount = 0
	debug    = false
)

func progress(i interface{}) {
	if debug {
		fmt.Printf("%v\n", i)
	}
}

func keyName(n uint) string {
	return fmt.Sprintf("k%d", n%keySpace)
}

var ClearCommand = &commands.ProtoCommand{
	Name: "Clear",
	RunFunc: func(s commands.SystemUnderTest) commands.Result {
		s.(*system).s.Clear(ctx)
		s.(*system).cmdCount++
		return nil
	},
	NextStateFunc: func(state commands.State) commands.State {
		state.(*expected).entries = map[uint]uint{}
		return state
	},
	PreConditionFunc: func(state commands.State) bool { return true },
	PostConditionFunc: func(state commands.State, result commands.Result) *gopter.PropResult {
		progress("Clear")
		return &gopter.PropResult{Status: gopter.PropTrue}
	},
}

var KeysCommand = &commands.ProtoCommand{
	Name: "Keys",
	RunFunc: func(s commands.SystemUnderTest) commands.Result {
		s.(*system).cmdCount++
		keys := s.(*system).s.Keys(ctx)
		sort.Strings(keys)
		return keys
	},
	NextStateFunc:    func(state commands.State) commands.State { return state },
	PreConditionFunc: func(state commands.State) bool { return true },
	PostConditionFunc: func(state commands.State, result commands.Result) *gopter.PropResult {
		want := []string{}
		for k := range state.(*expected).entries {
			want = append(want, keyName(k))
		}
		sort.Strings(want)
		if !reflect.DeepEqual(want, result.([]string)) {
			fmt.Printf("keysPostCondition: expected=%v, actual=%v\n", want, result)
			return &gopter.PropResult{Status: gopter.PropFalse}
		}
		progress("Keys")
		return &gopter.PropResult{Status: gopter.PropTrue}
	},
}

type getCommand uint

func (key getCommand) Run(s commands.SystemUnderTest) commands.Result {
	s.(*system).cmdCount++
	return Get(ctx, s.(*system).s, keyName(uint(key)), absent)
}

func (key getCommand) NextState(state commands.State) commands.State {
	return state
}

func (key getCommand) PreCondition(state commands.State) bool {
	return true
}

func (key getCommand) PostCondition(state commands.State, result commands.Result) *gopter.PropResult {
	want, ok := state.(*expected).entries[uint(key)%keySpace]
	if !ok {
		want = absent
	}
	if result.(uint) != want {
		fmt.Printf("getCommandPostCondition: (key=%v) expected=%v actual=%v\n", keyName(uint(key)), want, result)
		return &gopter.PropResult{Status: gopter.PropFalse}
	}
	progress(key)
	return &gopter.PropResult{Status: gopter.PropTrue}
}

func (key getCommand) String() string {
	return fmt.Sprintf("Get(%s)", keyName(uint(key)))
}

var genGet = uintCommandGen(
	func(value uint) commands.Command { return getCommand(value) },
	func(command interface{}) uint { return uint(command.(getCommand)) })

type removeCommand uint

func (key removeCommand) Run(s commands.SystemUnderTest) commands.Result {
	s.(*system).s.Remove(ctx, keyName(uint(key)))
	s.(*system).cmdCount++
	return nil
}

func (key removeCommand) NextState(state commands.State) commands.State {
	delete(state.(*expected).entries, uint(key)%keySpace)
	return state
}

func (key removeCommand) PreCondition(state commands.State) bool {
	return true
}

func (key removeCommand) PostCondition(state commands.State, result commands.Result) *gopter.PropResult {
	progress(key)
	return &gopter.PropResult{Status: gopter.PropTrue}
}

func (key removeCommand) String() string {
	return fmt.Sprintf("Remove(%s)", keyName(uint(key)))
}

var genRemove = uintCommandGen(
	func(value uint) commands.Command { return removeCommand(value) },
	func(command interface{}) uint { return uint(command.(removeCommand)) })

type setCommand uint

func (value setCommand) Run(s commands.SystemUnderTest) commands.Result {
	Set(ctx, s.(*system).s, keyName(uint(value)), uint(value))
	s.(*system).cmdCount++
	return nil
}

func (value setCommand) NextState(state commands.State) commands.State {
	state.(*expected).entries[uint(value)%keySpace] = uint(value)
	return state
}

func (value setCommand) PreCondition(state commands.State) bool {
	return true
}

func (value setCommand) PostCondition(state commands.State, result commands.Result) *gopter.PropResult {
	progress(value)
	return &gopter.PropResult{Status: gopter.PropTrue}
}

func (value setCommand) String() string {
	return fmt.Sprintf("Set(%s,%d)", keyName(uint(value)), value)
}

var genSet = uintCommandGen(
	func(value uint) commands.Command { return setCommand(value) },
	func(command interface{}) uint { return uint(command.(setCommand)) })

func uintCommandGen(toCommand func(uint) commands.Command, fromCommand func(interface{}) uint) gopter.Gen {
	return gen.UIntRange(0, 9_999).Map(func(value uint) commands.Command {
		return toCommand(value)
	}).WithShrinker(func(v interface{}) gopter.Shrink {
		return gen.UIntShrinker(fromCommand(v)).Map(func(value uint) commands.Command {
			return toCommand(value)
		})
	})
}

var storeCommands = &commands.ProtoCommands{
	NewSystemUnderTestFunc: func(initialState commands.State) commands.SystemUnderTest {
		s := New(&Config{Prefix: "ex:"})
		for key, value := range initialState.(*expected).entries {
			Set(ctx, s, keyName(key), value)
		}
		progress("NewSystem")
		return &system{s: s}
	},
	DestroySystemUnderTestFunc: func(s commands.SystemUnderTest) {
		cmdCount += s.(*system).cmdCount
	},
	InitialStateGen: gen.MapOf(gen.UIntRange(0, keySpace-1), gen.UIntRange(0, 9_999)).Map(func(entries map[uint]uint) *expected {
		return &expected{entries: entries}
	}),
	InitialPreConditionFunc: func(state commands.State) bool {
		_ = state.(*expected)
		return true
	},
	GenCommandFunc: func(state commands.State) gopter.Gen {
		return gen.Weighted(
			[]gen.WeightedGen{
				{Weight: 100, Gen: genGet},
				{Weight: 100, Gen: genSet},
				{Weight: 50, Gen: genRemove},
				{Weight: 20, Gen: gen.Const(KeysCommand)},
				{Weight: 2, Gen: gen.Const(ClearCommand)},
			},
		)
	},
}

func TestExerciser(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	if !testing.Short() {
		parameters.MaxSize = 512
	}
	properties := gopter.NewProperties(parameters)
	properties.Property("localstore exerciser", commands.Prop(storeCommands))
	properties.TestingRun(t)
	if !t.Failed() && debug {
		fmt.Printf("successful commands: %d\n", cmdCount)
	}
}
