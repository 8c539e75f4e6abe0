package distgraph

import (
	"github.com/hupe1980/distgraph/blobstore"
	"github.com/hupe1980/distgraph/graphfile"
	"github.com/hupe1980/distgraph/wire"
)

// defaultSendBufferSize is the flush threshold for per-peer edge staging
// buffers during the edge-load exchange.
const defaultSendBufferSize = 4 << 20

type options struct {
	filename     string
	store        blobstore.Store
	storeKey     string
	transpose    bool
	sendBufSize  int
	compression  wire.Compression
	workers      int
	logger       *Logger
	extraStats   bool
	readerRanges []graphfile.Range
}

func defaultOptions() options {
	return options{
		sendBufSize: defaultSendBufferSize,
		compression: wire.CompressionNone,
		logger:      NoopLogger(),
	}
}
