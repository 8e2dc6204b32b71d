package hashkey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestName_Deterministic(t *testing.T) {
	require.Equal(t, Name("alpha"), Name("alpha"))
	require.NotEqual(t, Name("alpha"), Name("beta"))
}

func TestName_DistinguishesType(t *testing.T) {
	// Name renders the dynamic type along with the value, so distinct types
	// with superficially similar values hash differently.
	require.NotEqual(t, Name(1), Name(int64(1)))
	require.NotEqual(t, Name("1"), Name(1))
}

func TestDisambiguate_NoCollision(t *testing.T) {
	used := map[string]bool{"other": true}
	require.Equal(t, "fresh", Disambiguate(used, "fresh"))
}

func TestDisambiguate_Collision(t *testing.T) {
	used := map[string]bool{"taken": true}
	got := Disambiguate(used, "taken")
	require.NotEqual(t, "taken", got)
	require.Contains(t, got, "taken-")
}

func TestDisambiguate_RepeatedCollision(t *testing.T) {
	used := map[string]bool{}
	name := Disambiguate(used, "k")
	used[name] = true
	// A second request for the same base collides with the name the first
	// call returned — Disambiguate must hand out a new, unused name.
	again := Disambiguate(used, "k")
	require.NotEqual(t, name, again)
	require.False(t, used[again])
}
