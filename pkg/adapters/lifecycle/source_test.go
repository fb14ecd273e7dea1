package lifecycle_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/aretw0/herbcat/pkg/adapters/lifecycle"
	"github.com/aretw0/herbcat/pkg/core"
)

func TestSource_ForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 2)
	src := adapter.NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventReload, Path: "base/default.yaml", Revision: "r1"}
	in <- core.Event{Type: core.EventInvalid, Path: "products/a.yaml", Err: fmt.Errorf("boom")}
	close(in)

	var got []string
	for e := range src.Events() {
		got = append(got, fmt.Sprint(e))
	}
	assert.Equal(t, []string{
		"RELOAD base/default.yaml (revision r1)",
		"INVALID products/a.yaml: boom",
	}, got)
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := adapter.NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not close after cancel")
	}
}
