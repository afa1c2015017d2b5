package res

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func writeFont(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestResolveMissingFileFallsBack(t *testing.T) {
	r := NewFontResolver(NewLoader(""))
	got := r.Resolve(filepath.Join(t.TempDir(), "ipaexg.ttf"))

	assert.True(t, got.FallbackUsed())
	assert.Equal(t, FallbackFamily, got.Family)
	assert.Nil(t, got.Data)
	assert.True(t, errors.Is(got.Reason, ErrFontUnavailable))
	assert.True(t, errors.Is(got.Reason, os.ErrNotExist))
}

func TestResolveEmptyNameFallsBack(t *testing.T) {
	got := NewFontResolver(nil).Resolve("")
	assert.Equal(t, FontFallbackUsed, got.Outcome)
	assert.ErrorIs(t, got.Reason, ErrFontUnavailable)
}

func TestResolveGarbageFallsBack(t *testing.T) {
	path := writeFont(t, t.TempDir(), "broken.ttf", []byte("definitely not a font"))

	got := NewFontResolver(nil).Resolve(path)
	assert.True(t, got.FallbackUsed())
	assert.Contains(t, got.Reason.Error(), "failed to parse font")
}

func TestResolveCollectionFallsBack(t *testing.T) {
	path := writeFont(t, t.TempDir(), "msgothic.ttc", goregular.TTF)

	got := NewFontResolver(nil).Resolve(path)
	assert.True(t, got.FallbackUsed())
	assert.Contains(t, got.Reason.Error(), "collections")
}

func TestResolveMissingGlyphFallsBack(t *testing.T) {
	// Go Regular has Latin glyphs only
	path := writeFont(t, t.TempDir(), "goregular.ttf", goregular.TTF)

	got := NewFontResolver(nil).Resolve(path)
	assert.True(t, got.FallbackUsed())
	assert.Contains(t, got.Reason.Error(), "no glyph")
}

func TestResolveUsableFont(t *testing.T) {
	path := writeFont(t, t.TempDir(), "goregular.ttf", goregular.TTF)

	r := NewFontResolver(nil)
	r.ProbeRunes = []rune{'A', 'z'}
	got := r.Resolve(path)

	require.Equal(t, FontOK, got.Outcome, "reason: %v", got.Reason)
	assert.Equal(t, PreferredFamily, got.Family)
	assert.Equal(t, goregular.TTF, got.Data)
	assert.NoError(t, got.Reason)
}

func TestResolveFromSearchPath(t *testing.T) {
	dir := t.TempDir()
	writeFont(t, dir, "goregular.ttf", goregular.TTF)

	loader := NewLoader("")
	loader.AddSearchPath(dir)
	r := NewFontResolver(loader)
	r.ProbeRunes = []rune{'A'}

	got := r.Resolve("goregular.ttf")
	require.False(t, got.FallbackUsed(), "reason: %v", got.Reason)
	assert.Equal(t, filepath.Join(dir, "goregular.ttf"), got.Source)
}

func TestResolveDataURL(t *testing.T) {
	u := "data:font/ttf;base64," + base64.StdEncoding.EncodeToString(goregular.TTF)

	r := NewFontResolver(nil)
	r.ProbeRunes = []rune{'A'}
	got := r.Resolve(u)
	assert.Equal(t, FontOK, got.Outcome)
}

func TestLoadFontRejectsOtherTypes(t *testing.T) {
	path := writeFont(t, t.TempDir(), "notes.txt", []byte("hello"))
	_, err := NewLoader("").LoadFont(path)
	assert.Error(t, err)
}

func TestLoaderResolvesRelativeToBase(t *testing.T) {
	dir := t.TempDir()
	writeFont(t, dir, "goregular.ttf", goregular.TTF)

	loader := NewLoader(filepath.Join(dir, "note.yaml"))
	got, err := loader.Load("goregular.ttf")
	require.NoError(t, err)
	assert.Equal(t, ResourceTypeFont, got.Type)

	again, err := loader.Load("goregular.ttf")
	require.NoError(t, err)
	assert.Same(t, got, again)
}

func TestLoaderRemoteFont(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "font/ttf")
		w.Write(goregular.TTF)
	}))
	defer srv.Close()

	res, err := NewLoader("").LoadFont(srv.URL + "/regular")
	require.NoError(t, err)
	assert.Equal(t, goregular.TTF, res.Data)
}

func TestLoaderRemoteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	l := NewLoader("")
	l.SetHTTPTimeout(50 * time.Millisecond)

	start := time.Now()
	_, err := l.Load(srv.URL + "/font.ttf")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
