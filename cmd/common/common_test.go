package common

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// Runs a tool with the given arguments, handing the context to check.
func runWith(t *testing.T, flags []cli.Flag, check func(c *cli.Context), args ...string) {
	called := false
	app := NewApp("hl-test", "test tool", "<in> <out>", flags, func(c *cli.Context) error {
		called = true
		check(c)
		return nil
	})
	require.NoError(t, app.Run(append([]string{"hl-test"}, args...)))
	require.True(t, called)
}

func Test_Width(t *testing.T) {
	runWith(t, []cli.Flag{WidthFlag()}, func(c *cli.Context) {
		w, err := Width(c)
		require.NoError(t, err)
		require.Equal(t, 32, w)
	})
	runWith(t, []cli.Flag{WidthFlag()}, func(c *cli.Context) {
		w, err := Width(c)
		require.NoError(t, err)
		require.Equal(t, 64, w)
	}, "--width", "64")
	runWith(t, []cli.Flag{WidthFlag()}, func(c *cli.Context) {
		_, err := Width(c)
		require.Error(t, err)
		require.Contains(t, err.Error(), "16")
	}, "-w", "16")
}

func Test_RequireArgs(t *testing.T) {
	runWith(t, nil, func(c *cli.Context) {
		require.NoError(t, RequireArgs(c, 2, 2))
		require.NoError(t, RequireArgs(c, 1, -1))
		err := RequireArgs(c, 3, 3)
		require.Error(t, err)
		require.Equal(t, "usage: hl-test <in> <out>", err.Error())
	}, "a", "b")
}

func Test_Threads(t *testing.T) {
	runWith(t, []cli.Flag{ThreadsFlag()}, func(c *cli.Context) {
		n, err := Threads(c)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}, "--threads", "1")
	runWith(t, []cli.Flag{ThreadsFlag()}, func(c *cli.Context) {
		_, err := Threads(c)
		require.Error(t, err)
	}, "-t", "0")
}
