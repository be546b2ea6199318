package main

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/ScottSallinen/hyperlink/cmd/common"
	"github.com/ScottSallinen/hyperlink/edgelist"
	"github.com/ScottSallinen/hyperlink/parhip"
	"github.com/ScottSallinen/hyperlink/utils"
)

// Merges sorted pair files into one ParHiP graph, without holding the edges in memory.
func main() {
	app := common.NewApp("hl-edges2parhip",
		"Merge sorted binary pair files into a ParHiP graph",
		"<output.parhip> <input.bin>...",
		[]cli.Flag{
			common.WidthFlag(),
			&cli.IntFlag{Name: "buffer", Aliases: []string{"b"}, Value: edgelist.DefaultBufferEdges, EnvVars: []string{"HL_BUFFER_EDGES"}, Usage: "Pairs buffered per input file."},
			&cli.IntFlag{Name: "flush", Value: parhip.DefaultFlushIDs, EnvVars: []string{"HL_FLUSH_IDS"}, Usage: "Adjacency ids buffered per output write."},
			&cli.BoolFlag{Name: "edge-ids32", Usage: "Store xadj[] as 32-bit words."},
			&cli.BoolFlag{Name: "equal-sizes", Usage: "Require all inputs to have the same size."},
		},
		run)
	common.Run(app)
}

func run(c *cli.Context) error {
	if err := common.RequireArgs(c, 2, -1); err != nil {
		return err
	}
	output := c.Args().First()
	inputs := c.Args().Tail()
	width, err := common.Width(c)
	if err != nil {
		return err
	}
	if c.Int("buffer") <= 0 || c.Int("flush") <= 0 {
		return common.Fail("buffer and flush sizes must be positive")
	}

	if utils.Exists(output) {
		return common.Fail("output file already exists: " + output)
	}
	for _, in := range inputs {
		f, err := utils.OpenFile(in)
		if err != nil {
			return common.Fail("cannot read input buffer " + in)
		}
		f.Close()
	}
	if c.Bool("equal-sizes") {
		if _, err := edgelist.CheckSizes(inputs); err != nil {
			return err
		}
	}

	opts := parhip.BuildOptions{
		BufferEdges: c.Int("buffer"),
		FlushIDs:    c.Int("flush"),
		EdgeIDs32:   c.Bool("edge-ids32"),
	}
	log.Info().Msg("Merging " + utils.V(len(inputs)) + " input files, " + utils.C(uint64(opts.BufferEdges)) + " pairs buffered each")

	watch := utils.Watch{}
	watch.Start()
	var header parhip.Header
	if width == 32 {
		header, err = parhip.BuildFile[uint32](output, inputs, opts)
	} else {
		header, err = parhip.BuildFile[uint64](output, inputs, opts)
	}
	if err != nil {
		return err
	}
	log.Info().Msg("Wrote " + output + " " + header.String() + " (" + utils.B(uint64(header.FileSize())) + ")")
	log.Info().Msg("Done in (ms) " + utils.V(watch.Elapsed().Milliseconds()))
	return nil
}
