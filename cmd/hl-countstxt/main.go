package main

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/ScottSallinen/hyperlink/cmd/common"
	"github.com/ScottSallinen/hyperlink/edgelist"
	"github.com/ScottSallinen/hyperlink/toker"
	"github.com/ScottSallinen/hyperlink/utils"
)

func main() {
	app := common.NewApp("hl-countstxt",
		"Summarize a sorted text edge list",
		"<input.txt>",
		nil,
		run)
	common.Run(app)
}

func run(c *cli.Context) error {
	if err := common.RequireArgs(c, 1, 1); err != nil {
		return err
	}
	input := c.Args().First()
	tok, err := toker.Open(input)
	if err != nil {
		return common.Fail("could not open input file " + input)
	}
	defer tok.Close()

	stats, err := edgelist.ScanTextStats(tok, input)
	var unsorted *edgelist.UnsortedError
	if errors.As(err, &unsorted) {
		return cli.Exit("Error in line "+utils.V(unsorted.Line)+": not sorted\n"+
			"Previous edge: "+utils.V(unsorted.PrevU)+"\t"+utils.V(unsorted.PrevV)+"\n"+
			"Current edge:  "+utils.V(unsorted.CurU)+"\t"+utils.V(unsorted.CurV), 1)
	} else if err != nil {
		return err
	}

	log.Info().Msg("Edges:       " + utils.C(stats.Edges))
	log.Info().Msg("Multi edges: " + utils.C(stats.MultiEdges))
	log.Info().Msg("Self loops:  " + utils.C(stats.SelfLoops))
	log.Info().Msg("u < v:       " + utils.C(stats.Forward))
	log.Info().Msg("u > v:       " + utils.C(stats.Backward))
	return nil
}
