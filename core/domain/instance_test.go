package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/molt/core/domain"
)

func newCounter(t *testing.T) *domain.Instance {
	t.Helper()
	desc, err := domain.NewDescriptor("Counter", counterMembers())
	require.NoError(t, err)
	return domain.NewInstance(desc)
}

func TestInstanceFieldsStartFromDefaults(t *testing.T) {
	inst := newCounter(t)

	v, err := inst.Get("count")
	require.NoError(t, err)
	require.Equal(t, 0, v)

	_, err = inst.Get("missing")
	require.ErrorIs(t, err, domain.ErrFieldNotFound)
}

func TestInstanceMethodsMutateFieldStorage(t *testing.T) {
	inst := newCounter(t)

	_, err := inst.Call("incr")
	require.NoError(t, err)
	_, err = inst.Call("incr")
	require.NoError(t, err)

	v, err := inst.Get("count")
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestInstanceCallUnknownMethod(t *testing.T) {
	inst := newCounter(t)

	_, err := inst.Call("explode")
	require.ErrorIs(t, err, domain.ErrMethodNotFound)
}

func TestRetargetKeepsFieldsAndAddsNewDefaults(t *testing.T) {
	inst := newCounter(t)
	inst.Set("count", 21)

	members := counterMembers()
	members["step"] = 5
	members["double"] = func(self map[string]any) int {
		return self["count"].(int) * 2
	}
	grown, err := domain.NewDescriptor("Counter", members)
	require.NoError(t, err)

	inst.Retarget(grown)

	require.Same(t, grown, inst.Class())

	count, err := inst.Get("count")
	require.NoError(t, err)
	require.Equal(t, 21, count)

	step, err := inst.Get("step")
	require.NoError(t, err)
	require.Equal(t, 5, step)

	out, err := inst.Call("double")
	require.NoError(t, err)
	require.Equal(t, []any{42}, out)
}
