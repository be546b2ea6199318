package main

import (
	"strconv"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/ScottSallinen/hyperlink/cmd/common"
	"github.com/ScottSallinen/hyperlink/edgelist"
	"github.com/ScottSallinen/hyperlink/toker"
	"github.com/ScottSallinen/hyperlink/utils"
)

// Converts a text edge list into a sorted, deduplicated binary pair file with u < v for every pair.
func main() {
	app := common.NewApp("hl-txt2sbin",
		"Convert a text edge list to sorted binary (u, v) pairs, u < v, without duplicates or self loops",
		"<input.txt> <output.bin> <upper bound on the number of edges in billions>",
		[]cli.Flag{common.WidthFlag(), common.ThreadsFlag()},
		run)
	common.Run(app)
}

func run(c *cli.Context) error {
	if err := common.RequireArgs(c, 3, 3); err != nil {
		return err
	}
	input, output := c.Args().Get(0), c.Args().Get(1)
	billions, err := strconv.ParseFloat(c.Args().Get(2), 64)
	if err != nil || billions <= 0 {
		return common.Fail("invalid edge bound " + c.Args().Get(2))
	}
	width, err := common.Width(c)
	if err != nil {
		return err
	}
	threads, err := common.Threads(c)
	if err != nil {
		return err
	}
	if width == 32 {
		return convert[uint32](input, output, uint64(billions*1e9), threads)
	}
	return convert[uint64](input, output, uint64(billions*1e9), threads)
}

func convert[T edgelist.ID](input string, output string, bound uint64, threads int) error {
	watch := utils.Watch{}
	watch.Start()

	tok, err := toker.Open(input)
	if err != nil {
		return common.Fail("could not open input file " + input)
	}
	defer tok.Close()

	// Fail on an unwritable output before any of the work.
	probe, err := utils.CreateFile(output)
	if err != nil {
		return common.Fail("could not open output file " + output)
	}
	probe.Close()

	need := bound * uint64(edgelist.PairWidth[T]())
	log.Info().Msg("Edge buffer for up to " + utils.C(bound) + " edges needs " + utils.B(need))
	if total := memory.TotalMemory(); total > 0 && need > total {
		log.Warn().Msg("WARNING: edge buffer (" + utils.B(need) + ") exceeds physical memory (" + utils.B(total) + ")")
	}

	log.Info().Msg("Parsing input file " + input + " (" + utils.B(uint64(tok.Length())) + ") ...")
	edges, err := edgelist.ParseText[T](tok.Bytes(), threads)
	if err != nil {
		return err
	}
	read := uint64(len(edges))
	if read > bound {
		log.Warn().Msg("WARNING: read " + utils.C(read) + " edges, more than the given bound of " + utils.C(bound))
	}
	watch.LogLap("Parse")

	edges, selfLoops := edgelist.Canonicalize(edges)

	log.Info().Msg("Sorting edges ...")
	edgelist.Sort(edges)
	watch.LogLap("Sort")
	utils.MemoryStats()

	log.Info().Msg("Removing duplicate edges ...")
	before := len(edges)
	edges = edgelist.Dedupe(edges)
	duplicates := uint64(before - len(edges))
	log.Info().Msg("\tRemoved " + utils.C(duplicates) + " duplicates (= " + utils.B(duplicates*uint64(edgelist.PairWidth[T]())) + ")")

	log.Info().Msg("Writing output file ...")
	if err := edgelist.WriteEdges(output, edges); err != nil {
		return err
	}
	watch.LogLap("Write")

	log.Info().Msg("Edges read:       " + utils.C(read))
	log.Info().Msg("Self loops:       " + utils.C(selfLoops))
	log.Info().Msg("Duplicates:       " + utils.C(duplicates))
	log.Info().Msg("Edges written:    " + utils.C(uint64(len(edges))) + " (" + utils.B(uint64(len(edges)*edgelist.PairWidth[T]())) + ")")
	log.Info().Msg("Done in (ms) " + utils.V(watch.Elapsed().Milliseconds()))
	return nil
}
