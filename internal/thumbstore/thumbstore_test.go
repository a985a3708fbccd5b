package thumbstore

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/tilecomp/internal/render/cache"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "thumbs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func swatch(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestPutGet(t *testing.T) {
	s := openStore(t)
	key := cache.MapKey("town", tilemap.RenderTypesOf(tilemap.Ground))

	_, ok, err := s.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(key, swatch(color.RGBA{R: 255, A: 255})))

	img, ok, err := s.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	r, _, _, a := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), a)

	// A different filter is a different row.
	_, ok, err = s.Get(cache.MapKey("town", 0))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, s.Put(key, nil))
}

func TestUnnamedLayerIsNotWholeMap(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put(cache.LayerKey("town", 0, ""), swatch(color.RGBA{R: 255, A: 255})))

	_, ok, err := s.Get(cache.MapKey("town", 0))
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := s.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, cache.LayerKey("town", 0, ""), entries[0].Key)
}

func TestPutReplaces(t *testing.T) {
	s := openStore(t)
	key := cache.LayerKey("town", 0, "ground")

	require.NoError(t, s.Put(key, swatch(color.RGBA{R: 255, A: 255})))
	require.NoError(t, s.Put(key, swatch(color.RGBA{B: 255, A: 255})))

	img, ok, err := s.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	_, _, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), b)

	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDeleteMapAndEntries(t *testing.T) {
	s := openStore(t)
	img := swatch(color.RGBA{G: 255, A: 255})

	require.NoError(t, s.Put(cache.MapKey("town", 0), img))
	require.NoError(t, s.Put(cache.LayerKey("town", 0, "ground"), img))
	require.NoError(t, s.Put(cache.MapKey("cave", 0), img))

	entries, err := s.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "cave", entries[0].Key.Map)
	assert.Equal(t, 3, entries[0].Width)
	assert.Equal(t, 2, entries[0].Height)

	n, err := s.DeleteMap("town")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err = s.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, cache.MapKey("cave", 0), entries[0].Key)
}

func TestWarm(t *testing.T) {
	s := openStore(t)
	img := swatch(color.RGBA{G: 255, A: 255})
	require.NoError(t, s.Put(cache.MapKey("town", 0), img))
	require.NoError(t, s.Put(cache.LayerKey("town", 0, "ground"), img))
	require.NoError(t, s.Put(cache.MapKey("cave", 0), img))

	c := cache.NewStore()
	n, err := s.Warm(c, "town")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, c.Contains(cache.MapKey("town", 0)))
	assert.True(t, c.Contains(cache.LayerKey("town", 0, "ground")))
	assert.False(t, c.Contains(cache.MapKey("cave", 0)))
}
