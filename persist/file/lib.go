package file

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	tempPrefix  = ".tmp-"
	entryPrefix = "e-"

	// maxFileName is NAME_MAX on common Linux and macOS filesystems.
	maxFileName = 255
)

// ErrNameTooLong is returned by Store for names whose encoded file name
// would exceed the filesystem limit; that is names longer than
// MaxNameLen bytes.
var ErrNameTooLong = errors.New("entry name too long for a file name")

// MaxNameLen is the longest entry name, in bytes, that can be stored.
const MaxNameLen = (maxFileName - len(entryPrefix)) * 3 / 4

func tooLong(name string) bool {
	return len(entryPrefix)+base64.RawURLEncoding.EncodedLen(len(name)) > maxFileName
}

// Persist implements the localstore.Persist interface for storing and
// loading entries as files, one per key. File names are the base64url
// encoded key behind a fixed prefix.
type Persist struct {
	basepath string
}

func (p Persist) path(name string) string {
	return filepath.Join(p.basepath, entryPrefix+base64.RawURLEncoding.EncodeToString([]byte(name)))
}

// Load loads the bytes persisted for the named entry. A missing entry
// yields an error matching fs.ErrNotExist.
func (p Persist) Load(ctx context.Context, name string) ([]byte, error) {
	if tooLong(name) {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return os.ReadFile(p.path(name))
}

// Store persists the given bytes for the named entry. The bytes are
// written to a temporary file which then replaces the old one, so
// readers see either the old or the new value in full.
func (p Persist) Store(ctx context.Context, name string, bytes []byte) error {
	if tooLong(name) {
		return fmt.Errorf("store %d-byte name: %w", len(name), ErrNameTooLong)
	}
	f, err := os.CreateTemp(p.basepath, tempPrefix+"*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(bytes)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmp, p.path(name))
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Delete removes the file for the named entry, if there is one.
func (p Persist) Delete(ctx context.Context, name string) error {
	if tooLong(name) {
		return nil
	}
	err := os.Remove(p.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Keys lists the entries in the directory. Files whose names are not
// entry names are ignored.
func (p Persist) Keys(ctx context.Context) ([]string, error) {
	dirents, err := os.ReadDir(p.basepath)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(dirents))
	for _, d := range dirents {
		encoded, ok := strings.CutPrefix(d.Name(), entryPrefix)
		if d.IsDir() || !ok {
			continue
		}
		key, err := base64.RawURLEncoding.DecodeString(encoded)
		if err != nil {
			continue
		}
		keys = append(keys, string(key))
	}
	return keys, nil
}

// Clear removes every entry file.
func (p Persist) Clear(ctx context.Context) error {
	keys, err := p.Keys(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := p.Delete(ctx, k); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return nil
}

// NewPersistForPath returns a Persist that loads and stores entries as
// files in the directory at the given path, creating it if needed.
//
//	p, err := NewPersistForPath("/var/lib/harvestkit/prefs")
//	err = p.Store(ctx, "darkMode", []byte("true"))
func NewPersistForPath(path string) (Persist, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Persist{}, err
	}
	return Persist{path}, nil
}
