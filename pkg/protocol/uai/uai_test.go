package uai_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/loopback7/heptana/pkg/engine"
	"github.com/loopback7/heptana/pkg/protocol/uai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drive feeds lines to a fresh driver and collects every output line until it
// sees one matching until, or the deadline passes.
func drive(t *testing.T, lines []string, until func(string) bool) []string {
	t.Helper()

	ctx := context.Background()
	e := engine.New(ctx, "heptana", "test", engine.WithOptions(engine.Options{Hash: 1, Threads: 1, Depth: 3}))

	in := make(chan string, len(lines)+1)
	for _, l := range lines {
		in <- l
	}

	d, out := uai.NewDriver(ctx, e, in)
	defer d.Close()

	var got []string
	deadline := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-out:
			if !ok {
				return got
			}
			got = append(got, line)
			if until != nil && until(line) {
				return got
			}
		case <-deadline:
			t.Fatal("timed out waiting for driver output")
			return got
		}
	}
}

func TestUaiHandshake(t *testing.T) {
	lines := drive(t, []string{"uai"}, func(l string) bool { return l == "uaiok" })

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "id name")
	assert.Contains(t, joined, "id author")
	assert.Contains(t, joined, "option name Hash")
	assert.Contains(t, joined, "uaiok")
}

func TestIsReady(t *testing.T) {
	lines := drive(t, []string{"isready"}, func(l string) bool { return l == "readyok" })
	assert.Equal(t, []string{"readyok"}, lines)
}

func TestPositionAndGoDepthProducesBestmove(t *testing.T) {
	lines := drive(t, []string{
		"position startpos",
		"go depth 2",
	}, func(l string) bool { return strings.HasPrefix(l, "bestmove") })

	require.NotEmpty(t, lines)
	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, "bestmove "))
	assert.NotEqual(t, "bestmove 0000", last)
}

func TestPositionWithMoves(t *testing.T) {
	lines := drive(t, []string{
		"position startpos moves g1g2",
		"go depth 1",
	}, func(l string) bool { return strings.HasPrefix(l, "bestmove") })

	require.NotEmpty(t, lines)
}

func TestStopWithoutActiveSearchIsIgnored(t *testing.T) {
	lines := drive(t, []string{"stop", "isready"}, func(l string) bool { return l == "readyok" })
	assert.Equal(t, []string{"readyok"}, lines)
}

func TestUnknownSetOptionReportsInfoString(t *testing.T) {
	lines := drive(t, []string{
		"setoption name MadeUpKnob value 7",
		"isready",
	}, func(l string) bool { return l == "readyok" })

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "info string unknown option")
}

func TestInvalidFenKeepsPreviousPosition(t *testing.T) {
	lines := drive(t, []string{
		"position fen not a valid fen at all",
		"isready",
	}, func(l string) bool { return l == "readyok" })

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "info string invalid")
}

func TestMalformedLineIsIgnored(t *testing.T) {
	lines := drive(t, []string{"", "   ", "isready"}, func(l string) bool { return l == "readyok" })
	assert.Equal(t, []string{"readyok"}, lines)
}

func TestQuitStopsDriver(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "heptana", "test")

	in := make(chan string, 2)
	in <- "quit"

	d, out := uai.NewDriver(ctx, e, in)
	defer d.Close()

	select {
	case <-d.Closed():
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not close after quit")
	}

	for range out {
	}
}
