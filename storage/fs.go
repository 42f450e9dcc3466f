// Package storage provides the storage adapters a cachepool.Pool persists
// through: a filesystem adapter (the reference backend), an in-process
// adapter backed by ristretto, and a Redis adapter.
package storage

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/dweisser/cachepool"
	"github.com/dweisser/cachepool/codec"
)

// fileSuffix marks the files owned by an FS adapter. DeleteAll touches
// nothing else in the directory.
const fileSuffix = ".cache"

// FS is a filesystem adapter: one file per key holding a codec-encoded
// envelope of value and expiration. Expired entries are removed lazily on
// read. Keys follow the cachepool validation contract, which keeps every
// key safe to use as a file name.
type FS struct {
	fsys  billy.Filesystem
	codec codec.Codec
	now   func() time.Time // for testing; defaults to time.Now
}

// NewFS creates a filesystem adapter rooted at dir, encoding entries as
// JSON.
func NewFS(dir string) (*FS, error) {
	return NewFSOn(osfs.New(dir), codec.JSON{})
}

// NewFSOn creates a filesystem adapter on an explicit billy filesystem with
// an explicit codec. A nil codec is a construction error, not a fallback.
func NewFSOn(fsys billy.Filesystem, c codec.Codec) (*FS, error) {
	if fsys == nil {
		return nil, errors.New("storage: nil filesystem")
	}
	if c == nil {
		return nil, errors.New("storage: nil codec")
	}
	return &FS{fsys: fsys, codec: c, now: time.Now}, nil
}

// Fetch reads the entry for key. Missing files and expired entries report a
// miss; an expired file is deleted on the way out.
func (f *FS) Fetch(ctx context.Context, key string) (any, bool, error) {
	if err := cachepool.ValidateKey(key); err != nil {
		return nil, false, err
	}

	data, err := util.ReadFile(f.fsys, f.filename(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}

	env, err := f.codec.Decode(data)
	if err != nil {
		return nil, false, err
	}
	if env.Expired(f.now()) {
		_ = f.fsys.Remove(f.filename(key))
		return nil, false, nil
	}
	return env.Value, true, nil
}

// Store writes the entry for key. A past expiresAt means the entry is
// already expired: any existing file is removed and nothing is written.
func (f *FS) Store(ctx context.Context, key string, value any, expiresAt time.Time) error {
	if err := cachepool.ValidateKey(key); err != nil {
		return err
	}

	env := codec.Envelope{Value: value, ExpiresAt: expiresAt}
	if env.Expired(f.now()) {
		return f.Delete(ctx, key)
	}

	data, err := f.codec.Encode(env)
	if err != nil {
		return err
	}
	return util.WriteFile(f.fsys, f.filename(key), data, 0o600)
}

// Delete removes the entry for key. Removing an absent key succeeds.
func (f *FS) Delete(ctx context.Context, key string) error {
	if err := cachepool.ValidateKey(key); err != nil {
		return err
	}
	if err := f.fsys.Remove(f.filename(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// DeleteAll removes every cache file in the adapter's directory. Files
// without the cache suffix are left alone.
func (f *FS) DeleteAll(ctx context.Context) error {
	entries, err := f.fsys.ReadDir(".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		if err := f.fsys.Remove(e.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Has reports whether an unexpired entry exists for key.
func (f *FS) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := f.Fetch(ctx, key)
	return ok, err
}

func (f *FS) filename(key string) string {
	return key + fileSuffix
}

var _ cachepool.Adapter = (*FS)(nil)
