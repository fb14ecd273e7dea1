package platform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/herbcat/internal/platform"
	"github.com/aretw0/herbcat/pkg/core"
)

func setupEngine(t *testing.T, opts ...platform.Option) (*platform.Engine, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "catalog")

	ctx := context.Background()
	_, err := platform.Init(ctx, dir)
	require.NoError(t, err)

	baseOpts := []platform.Option{platform.WithDebounce(20 * time.Millisecond)}
	eng, err := platform.New(ctx, dir, append(baseOpts, opts...)...)
	require.NoError(t, err)
	return eng, dir
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestEngine_ServesScaffoldedCatalog(t *testing.T) {
	eng, _ := setupEngine(t)

	key, doc := eng.ResolveRaw("Sample Product", core.LocaleAlternate)
	assert.Equal(t, core.ProductKey("sample-product"), key)
	assert.Equal(t, "Sample Product", doc["hero"]["title"])
	assert.Equal(t, "واٹس ایپ پر آرڈر کریں", doc["faq"]["cta"])
	assert.Equal(t, core.Money(6000), eng.PriceFor("sample-product", 3))
}

func TestEngine_Reload(t *testing.T) {
	eng, dir := setupEngine(t)
	before := eng.Catalog().Revision()

	writeFile(t, dir, "products/women/g-max-passion.yaml", "name: G-Max Passion\ncategory: women\nprice: 3000\n")
	c, err := eng.Reload(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, before, c.Revision())
	assert.True(t, eng.Catalog().Has("g-max-passion"))

	// A broken catalog is rejected and the previous one kept.
	writeFile(t, dir, "products/women/broken.yaml", "category: kids\n")
	_, err = eng.Reload(context.Background())
	assert.ErrorIs(t, err, core.ErrUnknownCategory)
	assert.Equal(t, c.Revision(), eng.Catalog().Revision())
}

func TestEngine_WatchReloads(t *testing.T) {
	eng, dir := setupEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := eng.Watch(ctx)
	require.NoError(t, err)

	next := func() core.Event {
		t.Helper()
		select {
		case e, ok := <-events:
			require.True(t, ok)
			return e
		case <-time.After(3 * time.Second):
			t.Fatal("timeout waiting for reload")
			return core.Event{}
		}
	}

	writeFile(t, dir, "products/men/sultan.yaml", "name: Sultan Shahi\ncategory: men\nprice: 5000\n")
	var e core.Event
	for e = next(); !eng.Catalog().Has("sultan"); e = next() {
	}
	assert.Equal(t, core.EventReload, e.Type)
	assert.Equal(t, eng.Catalog().Revision(), e.Revision)

	writeFile(t, dir, "products/men/bad.yaml", "sections:\n  hero:\n    badge: new\n")
	for e = next(); e.Type != core.EventInvalid; e = next() {
	}
	assert.True(t, errors.Is(e.Err, core.ErrUnknownField))
	assert.True(t, eng.Catalog().Has("sultan"), "previous catalog kept")

	state := eng.State().(platform.EngineState)
	assert.Equal(t, eng.Catalog().Revision(), state.Catalog.Revision)
	assert.NotNil(t, state.Source)
}

func TestEngine_WatchNeedsWatchableSource(t *testing.T) {
	spec := core.Spec{Bases: map[core.Locale]core.Document{
		core.LocaleDefault: {"hero": {"title": "x"}},
	}}
	eng, err := platform.New(context.Background(), "", platform.WithSource(core.SpecSource(spec)))
	require.NoError(t, err)

	_, err = eng.Watch(context.Background())
	assert.ErrorIs(t, err, platform.ErrNotWatchable)
	assert.Equal(t, "engine", eng.ComponentType())
}

func TestNew_MissingBase(t *testing.T) {
	_, err := platform.New(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, core.ErrMissingBase)
}
