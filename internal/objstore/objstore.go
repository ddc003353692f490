// Package objstore keeps item photos in a directory laid out like a public
// storage bucket, so stored image URLs keep the familiar
// /storage/v1/object/public/<bucket>/<name> shape.
package objstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBucket is the bucket that holds item photos.
const DefaultBucket = "lf-images"

// PublicPrefix is the URL path prefix of public objects.
const PublicPrefix = "/storage/v1/object/public/"

var (
	// ErrExists is returned by Put when the object name is taken.
	ErrExists = errors.New("object already exists")
	// ErrInvalidName is returned for names that could escape the bucket.
	ErrInvalidName = errors.New("invalid object name")
)

// Bucket is a flat directory of objects.
type Bucket struct {
	Dir     string // root storage directory; objects live in Dir/Name
	Name    string
	BaseURL string // prepended to PublicURL, may be empty for relative URLs
}

// New creates the bucket directory if needed.
func New(dir, name, baseURL string) (*Bucket, error) {
	if name == "" {
		name = DefaultBucket
	}
	b := &Bucket{Dir: dir, Name: name, BaseURL: strings.TrimRight(baseURL, "/")}
	if err := os.MkdirAll(b.path(), 0o755); err != nil {
		return nil, fmt.Errorf("creating bucket directory: %w", err)
	}
	return b, nil
}

func (b *Bucket) path() string {
	return filepath.Join(b.Dir, b.Name)
}

// ValidName reports whether name is a plain file name inside the bucket.
func ValidName(name string) bool {
	if name == "" || name == "." || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// NewObjectName returns "<unix-ms>_<random>" plus ext.
func NewObjectName(ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + suffix + ext
}

// Put stores data under name. Existing objects are never overwritten.
func (b *Bucket) Put(name string, data []byte) error {
	if !ValidName(name) {
		return ErrInvalidName
	}

	f, err := os.OpenFile(filepath.Join(b.path(), name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("storing %s: %w", name, ErrExists)
		}
		return fmt.Errorf("storing %s: %w", name, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("closing %s: %w", name, err)
	}
	return nil
}

// Open returns a reader for an object. The caller closes it.
func (b *Bucket) Open(name string) (*os.File, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}
	return os.Open(filepath.Join(b.path(), name))
}

// ReadAll returns the bytes of an object.
func (b *Bucket) ReadAll(name string) ([]byte, error) {
	f, err := b.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Delete removes an object. Deleting a missing object is not an error.
func (b *Bucket) Delete(name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	err := os.Remove(filepath.Join(b.path(), name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	return nil
}

// PublicURL is the URL an object is served at.
func (b *Bucket) PublicURL(name string) string {
	if name == "" {
		return ""
	}
	return b.BaseURL + PublicPrefix + b.Name + "/" + name
}

// ObjectName extracts the object name from a stored public URL or plain
// name. It returns "" when the value does not point into this bucket.
func (b *Bucket) ObjectName(urlOrName string) string {
	prefix := PublicPrefix + b.Name + "/"
	if i := strings.Index(urlOrName, prefix); i >= 0 {
		urlOrName = urlOrName[i+len(prefix):]
	}
	if !ValidName(urlOrName) {
		return ""
	}
	return urlOrName
}
