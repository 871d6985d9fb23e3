package pebble

import (
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/octohelm/queryfield/pkg/kv"
	"github.com/pkg/errors"
)

func init() {
	kv.RegisterEngine("pebble", &engine{})
}

type engine struct {
}

func (e engine) New(opt kv.Options) (kv.Store, error) {
	var opts pebble.Options

	path := opt.Path
	if path == "" {
		return nil, errors.New("engine pebble need `path`")
	}

	if path == kv.InMemory {
		opts.FS = vfs.NewMem()
		path = ""
	} else if err := EnsureDirectory(path); err != nil {
		return nil, err
	}

	pdb, err := pebble.Open(path, &opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble at %s", opt.Path)
	}

	return NewStore(pdb, opt), nil
}

type DB = pebble.DB

func EnsureDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o777)
	} else if err == nil && !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	return err
}
