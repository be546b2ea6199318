package main

import (
	"math"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/ScottSallinen/hyperlink/cmd/common"
	"github.com/ScottSallinen/hyperlink/metis"
	"github.com/ScottSallinen/hyperlink/parhip"
	"github.com/ScottSallinen/hyperlink/utils"
)

func main() {
	app := common.NewApp("hl-parhip2metis",
		"Export an unweighted ParHiP graph as METIS text",
		"<input.parhip> <output.metis> [vertices per chunk]",
		nil,
		run)
	common.Run(app)
}

func run(c *cli.Context) error {
	if err := common.RequireArgs(c, 2, 3); err != nil {
		return err
	}
	input, output := c.Args().Get(0), c.Args().Get(1)
	chunk := uint64(math.MaxUint64)
	if c.NArg() == 3 {
		var err error
		if chunk, err = strconv.ParseUint(c.Args().Get(2), 10, 64); err != nil || chunk == 0 {
			return common.Fail("invalid chunk size " + c.Args().Get(2))
		}
	}

	log.Info().Msg("In (ParHiP): " + input)
	log.Info().Msg("Out (METIS): " + output)
	log.Info().Msg("Chunk size:  " + utils.V(chunk))

	watch := utils.Watch{}
	watch.Start()

	f, err := parhip.OpenFile(input)
	if err != nil {
		return err
	}
	defer f.Close()
	h := f.Header
	log.Info().Msg("Version:       " + utils.F("%#x", parhip.EncodeVersion(h.Version)))
	log.Info().Msg("Nodes:         " + utils.C(h.N))
	log.Info().Msg("Edges:         " + utils.C(h.M))
	log.Info().Msg("Edge ID width: " + utils.V(h.EdgeIDWidth()))
	log.Info().Msg("Node ID width: " + utils.V(h.VertexIDWidth()))

	w, err := metis.Create(output)
	if err != nil {
		return err
	}

	log.Info().Msg("Copying adjacency lists ...")
	err = metis.Export(f.Reader, w, chunk, func(done uint64) {
		log.Debug().Msg("\t" + utils.C(done) + " of " + utils.C(h.N) + " nodes")
	})
	if cerr := w.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	log.Info().Msg("Done in (ms) " + utils.V(watch.Elapsed().Milliseconds()))
	return nil
}
