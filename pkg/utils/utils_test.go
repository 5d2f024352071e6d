package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("LOANSX_TEST_INT", "-3")
	t.Setenv("LOANSX_TEST_BOOL", "true")
	t.Setenv("LOANSX_TEST_LIST", " http://a:8080/ , ,http://b:8080")

	require.Equal(t, "x", Env("LOANSX_TEST_UNSET", "x"))
	require.Equal(t, 7, EnvInt("LOANSX_TEST_INT", 7))
	require.True(t, EnvBool("LOANSX_TEST_BOOL", false))
	require.False(t, EnvBool("LOANSX_TEST_UNSET", false))
	require.Equal(t, []string{"http://a:8080/", "http://b:8080"}, EnvList("LOANSX_TEST_LIST", ""))
}

func TestDedupTrimsTrailingSlash(t *testing.T) {
	require.Equal(t, []string{"http://a:8080", "http://b:8080"}, Dedup([]string{"http://a:8080/", "http://a:8080", "http://b:8080"}))
	require.Equal(t, uint8(1), BoolToUInt8(true))
	require.Equal(t, uint8(0), BoolToUInt8(false))
}

func TestDedupDropsBlanks(t *testing.T) {
	require.Empty(t, Dedup([]string{"", " / "}))
	require.Equal(t, []string{"http://b", "http://a"}, Dedup([]string{" http://b/", "http://a", "http://b"}))
}
