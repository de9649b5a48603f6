// Package cache persists discovered tables of contents between runs, keyed
// by the CRC the device reports. A CRC hit replaces a full TOC walk, which
// over the radio takes several seconds.
package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	homedir "github.com/mitchellh/go-homedir"
)

var dirOnce sync.Once
var dir string
var dirErr error

func cacheDir() (string, error) {
	dirOnce.Do(func() {
		home, err := homedir.Dir()
		if err != nil {
			dirErr = err
			return
		}
		dir = filepath.Join(home, ".crazyflie-cache")
		dirErr = os.MkdirAll(dir, 0755)
	})
	return dir, dirErr
}

func load(crc uint32, kind string, e interface{}) error {
	d, err := cacheDir()
	if err != nil {
		return err
	}

	file, err := os.Open(filepath.Join(d, fmt.Sprintf("%08X.%s", crc, kind)))
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewDecoder(file).Decode(e)
}

func save(crc uint32, kind string, e interface{}) error {
	d, err := cacheDir()
	if err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(d, fmt.Sprintf("%08X.%s", crc, kind)))
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(e)
}

func LoadLog(crc uint32, e interface{}) error {
	return load(crc, "logcache", e)
}

func SaveLog(crc uint32, e interface{}) error {
	return save(crc, "logcache", e)
}

func LoadParam(crc uint32, e interface{}) error {
	return load(crc, "paramcache", e)
}

func SaveParam(crc uint32, e interface{}) error {
	return save(crc, "paramcache", e)
}
