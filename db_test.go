package oledgen

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := OpenCatalog(filepath.Join(t.TempDir(), "oledgen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })
	return catalog
}

func TestCatalogRoundTrip(t *testing.T) {
	catalog := testCatalog(t)

	v := Conversion{
		Name:      "logo",
		Path:      "/images/logo.png",
		CRC:       "DEADBEEF",
		Width:     16,
		Height:    16,
		DataLen:   32,
		Header:    "Img_logo_png.h",
		CreatedAt: time.Now(),
	}
	require.NoError(t, catalog.Record(v))

	got, err := catalog.FindByCRC("DEADBEEF")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, v.Name, got.Name)
	assert.Equal(t, v.Path, got.Path)
	assert.Equal(t, v.Width, got.Width)
	assert.Equal(t, v.Height, got.Height)
	assert.Equal(t, v.DataLen, got.DataLen)
	assert.Equal(t, v.Header, got.Header)
}

func TestCatalogFindMissing(t *testing.T) {
	got, err := testCatalog(t).FindByCRC("00000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCatalogRecordReplacesByName(t *testing.T) {
	catalog := testCatalog(t)

	v := Conversion{Name: "logo", Path: "a.png", CRC: "11111111", CreatedAt: time.Now()}
	require.NoError(t, catalog.Record(v))

	v.CRC = "22222222"
	require.NoError(t, catalog.Record(v))

	conversions, err := catalog.List()
	require.NoError(t, err)
	require.Len(t, conversions, 1)
	assert.Equal(t, "22222222", conversions[0].CRC)
}

func TestCatalogListOrder(t *testing.T) {
	catalog := testCatalog(t)

	for _, name := range []string{"zebra", "arrow", "mid"} {
		require.NoError(t, catalog.Record(Conversion{Name: name, CRC: name, CreatedAt: time.Now()}))
	}

	conversions, err := catalog.List()
	require.NoError(t, err)
	require.Len(t, conversions, 3)
	assert.Equal(t, "arrow", conversions[0].Name)
	assert.Equal(t, "mid", conversions[1].Name)
	assert.Equal(t, "zebra", conversions[2].Name)
}
