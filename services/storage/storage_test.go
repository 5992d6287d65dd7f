package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	key := GenerateKey("/dissertations/", "My Thesis (final).PDF")
	assert.True(t, strings.HasPrefix(key, "dissertations/"))
	assert.True(t, strings.HasSuffix(key, "_My_Thesis_final.pdf"))
	assert.NotEqual(t, key, GenerateKey("dissertations", "My Thesis (final).PDF"))

	assert.True(t, strings.HasSuffix(GenerateKey("x", "../../.pdf"), "_file.pdf"))
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", GetContentType("a.PDF"))
	assert.Equal(t, "application/octet-stream", GetContentType("a.bin"))
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	url, err := s.Upload(ctx, "dissertations/a.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/dissertations/a.pdf", url)

	_, err = os.Stat(filepath.Join(dir, "dissertations", "a.pdf"))
	require.NoError(t, err)

	data, err := s.Download(ctx, "dissertations/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, s.Delete(ctx, "dissertations/a.pdf"))
	_, err = s.Download(ctx, "dissertations/a.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete(ctx, "dissertations/a.pdf"))
}

func TestLocalStorage_KeysStayInsideRoot(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "root"), "/uploads")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "../../escape.pdf", []byte("x"), "")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "escape.pdf"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "root", "escape.pdf"))
	assert.NoError(t, err)
}

func TestNewSpacesStorage_RequiresConfig(t *testing.T) {
	_, err := NewSpacesStorage(SpacesConfig{Region: "nyc3"})
	assert.Error(t, err)

	_, err = NewSpacesStorage(SpacesConfig{Bucket: "b", Region: "nyc3"})
	assert.Error(t, err)

	s, err := NewSpacesStorage(SpacesConfig{Bucket: "b", Region: "nyc3", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "https://b.nyc3.digitaloceanspaces.com/x.pdf", s.URL("x.pdf"))
}
