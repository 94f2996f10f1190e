package domain_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/molt/core/domain"
)

func TestNewFuncArtifactRejectsNonFunc(t *testing.T) {
	_, err := domain.NewFuncArtifact(reflect.ValueOf(42), 0)
	require.ErrorIs(t, err, domain.ErrUnsupportedTarget)
}

func TestInvokeConvertsArguments(t *testing.T) {
	add := func(a, b int) int { return a + b }

	out, err := domain.Invoke(reflect.ValueOf(add), []any{2, int64(3)})
	require.NoError(t, err)
	require.Equal(t, []any{5}, out)
}

func TestInvokeVariadic(t *testing.T) {
	sum := func(base int, rest ...int) int {
		for _, r := range rest {
			base += r
		}
		return base
	}

	out, err := domain.Invoke(reflect.ValueOf(sum), []any{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []any{6}, out)

	out, err = domain.Invoke(reflect.ValueOf(sum), []any{1})
	require.NoError(t, err)
	require.Equal(t, []any{1}, out)

	_, err = domain.Invoke(reflect.ValueOf(sum), []any{})
	require.ErrorIs(t, err, domain.ErrArgumentMismatch)
}

func TestInvokeArityAndTypeMismatch(t *testing.T) {
	add := func(a, b int) int { return a + b }

	_, err := domain.Invoke(reflect.ValueOf(add), []any{1})
	require.ErrorIs(t, err, domain.ErrArgumentMismatch)

	_, err = domain.Invoke(reflect.ValueOf(add), []any{1, "two"})
	require.ErrorIs(t, err, domain.ErrArgumentMismatch)
}

func TestInvokeNilForNilableParameter(t *testing.T) {
	length := func(m map[string]any) int { return len(m) }

	out, err := domain.Invoke(reflect.ValueOf(length), []any{nil})
	require.NoError(t, err)
	require.Equal(t, []any{0}, out)
}

func TestInvokeRejectsIntToStringConversion(t *testing.T) {
	echo := func(s string) string { return s }

	_, err := domain.Invoke(reflect.ValueOf(echo), []any{42})
	require.ErrorIs(t, err, domain.ErrArgumentMismatch)
}

func TestArtifactCompatibleWithSignatureChange(t *testing.T) {
	oldArt, err := domain.NewFuncArtifact(reflect.ValueOf(func(x int) int { return x }), 0)
	require.NoError(t, err)

	same, err := domain.NewFuncArtifact(reflect.ValueOf(func(x int) int { return x * 2 }), 1)
	require.NoError(t, err)
	require.NoError(t, same.CompatibleWith(oldArt))

	changed, err := domain.NewFuncArtifact(reflect.ValueOf(func(x string) string { return x }), 2)
	require.NoError(t, err)
	require.ErrorIs(t, changed.CompatibleWith(oldArt), domain.ErrIncompatibleSignature)
}

func TestArtifactTarget(t *testing.T) {
	fn := func(x int) int { return x + 1 }
	art, err := domain.NewFuncArtifact(reflect.ValueOf(fn), 0)
	require.NoError(t, err)

	typed, ok := art.Target().(func(int) int)
	require.True(t, ok)
	require.Equal(t, 6, typed(5))

	desc, err := domain.NewDescriptor("Counter", counterMembers())
	require.NoError(t, err)
	classArt := domain.NewClassArtifact(desc, 0)
	require.Same(t, desc, classArt.Target())
}
