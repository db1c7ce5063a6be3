package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, lines <-chan string) []string {
	t.Helper()
	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return got
			}
			got = append(got, line)
		case <-timeout:
			t.Fatal("lines channel was never closed")
		}
	}
}

func TestReadLines_DeliversLinesThenCloses(t *testing.T) {
	lines, errc := readLines(context.Background(), strings.NewReader("milk\neggs\n"))

	assert.Equal(t, []string{"milk", "eggs"}, collect(t, lines))
	assert.NoError(t, <-errc)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestReadLines_ReportsReadError(t *testing.T) {
	lines, errc := readLines(context.Background(), failingReader{})

	assert.Empty(t, collect(t, lines))
	err := <-errc
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty gone")
}

func TestReadLines_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	// Nobody receives the line, so the reader is parked on the send.
	lines, errc := readLines(ctx, strings.NewReader("bread\n"))
	cancel()

	select {
	case _, ok := <-errc:
		assert.False(t, ok, "no error is reported after cancellation")
	case <-time.After(2 * time.Second):
		t.Fatal("reader goroutine did not exit after cancel")
	}
	_, ok := <-lines
	assert.False(t, ok)
}
