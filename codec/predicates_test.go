package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsAbsent(t *testing.T) {
	var nilMap map[string]int
	var nilSlice []int
	var nilPtr *int

	require.True(t, IsAbsent(nil))
	require.True(t, IsAbsent(nilMap))
	require.True(t, IsAbsent(nilSlice))
	require.True(t, IsAbsent(nilPtr))
	require.False(t, IsAbsent(0))
	require.False(t, IsAbsent(""))
}

func TestIsNumber_ExcludesByte(t *testing.T) {
	require.False(t, IsNumber(byte(1)), "a lone byte is a bytes element, not a Number node")
	require.True(t, IsNumber(1))
	require.True(t, IsNumber(int64(1)))
	require.True(t, IsNumber(3.14))
	require.True(t, IsNumber(complex(1, 2)))
}

func TestNormalizeNumber_Widens(t *testing.T) {
	require.Equal(t, int64(7), normalizeNumber(int32(7)))
	require.Equal(t, int64(7), normalizeNumber(uint16(7)))
	require.Equal(t, float64(1.5), normalizeNumber(float32(1.5)))
	require.Equal(t, complex128(complex(1, 2)), normalizeNumber(complex64(complex(1, 2))))
}

func TestIsList_ExactKindOnly(t *testing.T) {
	require.True(t, IsList([]any{1, 2}))
	require.False(t, IsList(Tuple{1, 2}), "Tuple must not also match IsList")
}

func TestIsTuple_ExactKindOnly(t *testing.T) {
	require.True(t, IsTuple(Tuple{1}))
	require.False(t, IsTuple([]any{1}))
}

func TestIndexWidth(t *testing.T) {
	require.Equal(t, 2, indexWidth(0))
	require.Equal(t, 2, indexWidth(1))
	require.Equal(t, 2, indexWidth(10))
	require.Equal(t, 3, indexWidth(101))
}

func TestIsDict_DistinguishesByGoType(t *testing.T) {
	require.True(t, IsDictTextKeys(map[string]any{"a": 1}))
	require.False(t, IsDictTextKeys(HashedMap{1: "a"}))
	require.True(t, IsDictHashed(HashedMap{1: "a"}))
	require.False(t, IsDictHashed(map[string]any{"a": 1}))
}

func TestIsSet(t *testing.T) {
	require.True(t, IsSet(Set{"a": struct{}{}}))
	require.False(t, IsSet(map[string]any{}))
}

func TestIsPosixWindowsPath(t *testing.T) {
	require.True(t, IsPosixPath(PosixPath("/a/b")))
	require.False(t, IsPosixPath(WindowsPath(`C:\a`)))
	require.True(t, IsWindowsPath(WindowsPath(`C:\a`)))
}

func TestIsGlobal(t *testing.T) {
	require.False(t, IsGlobal("not a symbol"))
}
