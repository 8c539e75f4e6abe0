package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/distgraph"
	"github.com/hupe1980/distgraph/graphfile"
	"github.com/hupe1980/distgraph/partition"
	"github.com/hupe1980/distgraph/transport"
)

const numHosts = 2

func main() {
	dir, err := os.MkdirTemp("", "distgraph-demo")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	// a small weighted toy graph
	adj := [][]graphfile.Edge{
		{{Dst: 1, Data: 5}, {Dst: 2, Data: 7}},
		{{Dst: 2, Data: 3}},
		{{Dst: 0, Data: 2}},
	}
	path := filepath.Join(dir, "toy.gr")
	if err := graphfile.WriteFile(path, adj, true); err != nil {
		log.Fatal(err)
	}

	mesh := transport.NewMesh(numHosts)
	graphs := make([]*distgraph.Graph, numHosts)

	var eg errgroup.Group
	for id := uint32(0); id < numHosts; id++ {
		id := id
		eg.Go(func() error {
			g, err := distgraph.New(mesh.Host(id), partition.NewHashCut()).
				File(path).
				Logger(distgraph.NewTextLogger(slog.LevelDebug)).
				Load(context.Background())
			if err != nil {
				return fmt.Errorf("host %d: %w", id, err)
			}
			graphs[id] = g
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Fatal(err)
	}

	for id, g := range graphs {
		fmt.Printf("host %d: owned=%d nodes=%d edges=%d\n", id, g.NumOwned(), g.NumNodes(), g.NumEdges())
		for lid := uint32(0); lid < g.NumNodes(); lid++ {
			for e, end := g.EdgeBegin(lid), g.EdgeEnd(lid); e < end; e++ {
				fmt.Printf("  %d -> %d (w=%d)\n", g.L2G(lid), g.L2G(g.EdgeDst(e)), g.EdgeData(e))
			}
		}
	}
}
