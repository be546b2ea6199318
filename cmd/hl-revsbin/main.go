package main

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/ScottSallinen/hyperlink/cmd/common"
	"github.com/ScottSallinen/hyperlink/edgelist"
	"github.com/ScottSallinen/hyperlink/utils"
)

// Turns a sorted pair file into the sorted file of its reversed pairs.
// With a single argument the input is rewritten in place.
func main() {
	app := common.NewApp("hl-revsbin",
		"Reverse every (u, v) pair of a binary pair file and sort the result",
		"<input.bin> [output.bin]",
		[]cli.Flag{common.WidthFlag()},
		run)
	common.Run(app)
}

func run(c *cli.Context) error {
	if err := common.RequireArgs(c, 1, 2); err != nil {
		return err
	}
	input, output := c.Args().Get(0), c.Args().Get(0)
	inPlace := c.NArg() == 1
	if !inPlace {
		output = c.Args().Get(1)
	}
	width, err := common.Width(c)
	if err != nil {
		return err
	}
	if width == 32 {
		return reverse[uint32](input, output, inPlace)
	}
	return reverse[uint64](input, output, inPlace)
}

func reverse[T edgelist.ID](input string, output string, inPlace bool) error {
	if !inPlace && utils.Exists(output) {
		return common.Fail("output file already exists: " + output)
	}
	watch := utils.Watch{}
	watch.Start()

	size, err := utils.FileSize(input)
	if err != nil {
		return common.Fail("could not open input file " + input)
	}
	log.Info().Msg("Reading " + utils.C(uint64(size)/uint64(edgelist.PairWidth[T]())) + " edges (" + utils.B(uint64(size)) + ") ...")
	edges, err := edgelist.ReadEdges[T](input)
	if err != nil {
		return err
	}
	watch.LogLap("Read")
	utils.MemoryStats()

	log.Info().Msg("Reversing edges ...")
	edgelist.Reverse(edges)

	log.Info().Msg("Sorting edges ...")
	edgelist.Sort(edges)
	watch.LogLap("Sort")

	log.Info().Msg("Writing output file ...")
	if inPlace {
		err = edgelist.WriteEdges(output, edges)
	} else {
		err = edgelist.WriteEdgesExclusive(output, edges)
	}
	if err != nil {
		return err
	}
	log.Info().Msg("Done in (ms) " + utils.V(watch.Elapsed().Milliseconds()))
	return nil
}
