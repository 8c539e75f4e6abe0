package graphfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/distgraph/internal/conv"
)

// Magic identifies a graph container file ("DGR1").
const Magic uint32 = 0x31524744

const headerSize = 24

// ErrBadMagic is returned when a file does not start with Magic.
var ErrBadMagic = errors.New("graphfile: bad magic")

// Edge is one directed edge during file construction.
type Edge struct {
	Dst  uint64
	Data uint32
}

// Write serializes an adjacency list to w. adj[u] holds u's out-edges in
// the order they will appear on disk. withData selects whether the edata
// section is written.
func Write(w io.Writer, adj [][]Edge, withData bool) error {
	bw := bufio.NewWriter(w)

	var numEdges uint64
	for _, es := range adj {
		numEdges += uint64(len(es))
	}

	edgeDataSize := uint32(0)
	if withData {
		edgeDataSize = 4
	}

	if err := binary.Write(bw, binary.LittleEndian, Magic); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, edgeDataSize); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(adj))); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, numEdges); err != nil {
		return err
	}

	var end uint64
	for _, es := range adj {
		end += uint64(len(es))
		if err := binary.Write(bw, binary.LittleEndian, end); err != nil {
			return err
		}
	}
	for _, es := range adj {
		for _, e := range es {
			// the dests section holds 32-bit node ids
			dst, err := conv.Uint64ToUint32(e.Dst)
			if err != nil {
				return fmt.Errorf("graphfile: destination %d: %w", e.Dst, err)
			}
			if err := binary.Write(bw, binary.LittleEndian, dst); err != nil {
				return err
			}
		}
	}
	if withData {
		for _, es := range adj {
			for _, e := range es {
				if err := binary.Write(bw, binary.LittleEndian, e.Data); err != nil {
					return err
				}
			}
		}
	}

	return bw.Flush()
}

// WriteFile serializes an adjacency list to a file at path.
func WriteFile(path string, adj [][]Edge, withData bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("graphfile: create %s: %w", path, err)
	}
	if err := Write(f, adj, withData); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
