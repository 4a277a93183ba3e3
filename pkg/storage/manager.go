package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/travlrgetaways/travlr/config"
)

var (
	mu      sync.RWMutex
	defDisk Disk
)

// Init builds the default disk from STORAGE_DRIVER (local or s3).
func Init(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	switch config.StorageDefault() {
	case "s3":
		d, err := NewS3(ctx)
		if err != nil {
			return err
		}
		defDisk = d
	case "local", "":
		defDisk = NewLocal(config.StorageLocalRoot(), config.StorageURL())
	default:
		return fmt.Errorf("storage: unknown driver %q", config.StorageDefault())
	}

	return nil
}

// Default returns the configured disk. Panics if Init never ran; storage
// misconfiguration should stop the server at boot, not at first upload.
func Default() Disk {
	mu.RLock()
	defer mu.RUnlock()
	if defDisk == nil {
		panic("storage: Init not called")
	}
	return defDisk
}

// SetDefault swaps the disk. For tests.
func SetDefault(d Disk) {
	mu.Lock()
	defer mu.Unlock()
	defDisk = d
}
