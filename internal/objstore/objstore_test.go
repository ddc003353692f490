package objstore

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutOpenDelete(t *testing.T) {
	b, err := New(t.TempDir(), "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultBucket, b.Name)

	require.NoError(t, b.Put("a.jpg", []byte("photo")))

	data, err := b.ReadAll("a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("photo"), data)

	require.NoError(t, b.Delete("a.jpg"))
	_, err = b.Open("a.jpg")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.NoError(t, b.Delete("a.jpg"), "deleting twice is fine")
}

func TestPutDoesNotOverwrite(t *testing.T) {
	b, err := New(t.TempDir(), DefaultBucket, "")
	require.NoError(t, err)

	require.NoError(t, b.Put("x.jpg", []byte("first")))
	err = b.Put("x.jpg", []byte("second"))
	assert.ErrorIs(t, err, ErrExists)

	data, _ := b.ReadAll("x.jpg")
	assert.Equal(t, []byte("first"), data)
}

func TestInvalidNames(t *testing.T) {
	dir := t.TempDir()
	b, err := New(dir, DefaultBucket, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("x"), 0o644))

	for _, name := range []string{"", ".", "..", "../secret.txt", "a/b.jpg", `a\b.jpg`} {
		assert.ErrorIs(t, b.Put(name, []byte("x")), ErrInvalidName, name)
		_, err := b.Open(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.ErrorIs(t, b.Delete(name), ErrInvalidName, name)
	}
}

func TestNewObjectName(t *testing.T) {
	re := regexp.MustCompile(`^\d{13}_[0-9a-f]{10}\.jpg$`)
	a := NewObjectName(".jpg")
	b := NewObjectName(".jpg")
	assert.Regexp(t, re, a)
	assert.NotEqual(t, a, b)
	assert.True(t, ValidName(a))
}

func TestPublicURL(t *testing.T) {
	b := &Bucket{Name: "lf-images", BaseURL: "https://lf.example.jp"}
	assert.Equal(t,
		"https://lf.example.jp/storage/v1/object/public/lf-images/1700000000000_abc.jpg",
		b.PublicURL("1700000000000_abc.jpg"))
	assert.Empty(t, b.PublicURL(""))

	rel := &Bucket{Name: "lf-images"}
	assert.Equal(t, "/storage/v1/object/public/lf-images/x.jpg", rel.PublicURL("x.jpg"))
}

func TestObjectName(t *testing.T) {
	b := &Bucket{Name: "lf-images", BaseURL: "https://lf.example.jp"}
	assert.Equal(t, "x.jpg", b.ObjectName("https://old.example.jp/storage/v1/object/public/lf-images/x.jpg"))
	assert.Equal(t, "x.jpg", b.ObjectName("x.jpg"))
	assert.Empty(t, b.ObjectName("https://cdn.example.jp/other/x.jpg"))
	assert.Empty(t, b.ObjectName(""))
}
