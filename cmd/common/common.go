package common

import (
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/ScottSallinen/hyperlink/utils"
)

// NewApp builds a tool with the flags every tool shares. argsUsage is the positional argument list.
func NewApp(name string, usage string, argsUsage string, flags []cli.Flag, action cli.ActionFunc) *cli.App {
	return &cli.App{
		Name:      name,
		Usage:     usage,
		ArgsUsage: argsUsage,
		Flags: append(flags,
			&cli.IntFlag{Name: "debug", Value: 0, Usage: "Extra output. 0 for info, 1 for debug, 2 for trace."},
			&cli.BoolFlag{Name: "nc", Usage: "Removes the colouring from the log output."},
		),
		HideHelpCommand: true,
		Before: func(c *cli.Context) error {
			utils.SetLoggerConsole(c.Bool("nc"))
			utils.SetLevel(c.Int("debug"))
			return nil
		},
		Action: action,
	}
}

// Run runs the app; any error that is not already an exit code becomes a diagnostic and status 1.
func Run(app *cli.App) {
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Msg("error: " + err.Error())
	}
}

// Usage is the error for a wrong number of positional arguments.
func Usage(c *cli.Context) error {
	return cli.Exit("usage: "+c.App.Name+" "+c.App.ArgsUsage, 1)
}

// RequireArgs checks that there are between min and max positional arguments. max < 0 is unbounded.
func RequireArgs(c *cli.Context, min int, max int) error {
	if c.NArg() < min || (max >= 0 && c.NArg() > max) {
		return Usage(c)
	}
	return nil
}

// Fail is a fatal precondition failure.
func Fail(msg string) error {
	return cli.Exit("error: "+msg, 1)
}

func WidthFlag() cli.Flag {
	return &cli.IntFlag{Name: "width", Aliases: []string{"w"}, Value: 32, Usage: "Vertex id width in bits, 32 or 64."}
}

// Width gives the validated --width value.
func Width(c *cli.Context) (int, error) {
	switch w := c.Int("width"); w {
	case 32, 64:
		return w, nil
	default:
		return 0, Fail("width must be 32 or 64, got " + utils.V(w))
	}
}

func ThreadsFlag() cli.Flag {
	return &cli.IntFlag{Name: "threads", Aliases: []string{"t"}, Value: runtime.NumCPU(), EnvVars: []string{"HL_THREADS"}, Usage: "Worker count for parsing."}
}

// Threads gives the validated --threads value.
func Threads(c *cli.Context) (int, error) {
	t := c.Int("threads")
	if t <= 0 {
		return 0, Fail("invalid thread count " + utils.V(t))
	} else if t > runtime.NumCPU() {
		log.Warn().Msg("Thread count is greater than CPU count?")
	}
	return t, nil
}
