package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/loopback7/heptana/pkg/engine"
	"github.com/loopback7/heptana/pkg/protocol/console"
	"github.com/loopback7/heptana/pkg/protocol/uai"
	"github.com/seekerror/logw"
)

var (
	hash    = flag.Uint("hash", 16, "Transposition table size in MB")
	threads = flag.Uint("threads", 1, "Number of search worker goroutines")
	depth   = flag.Uint("depth", 0, "Default search depth limit (0 = none)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: heptana [options]

HEPTANA is a 7x7 Ataxx engine speaking the UAI text protocol.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "heptana", "loopback7", engine.WithOptions(engine.Options{
		Hash: *hash, Threads: *threads, Depth: *depth,
	}))

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uai.ProtocolName:
		driver, out := uai.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
