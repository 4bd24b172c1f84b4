package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/voxelsplace/bod/bod"
)

// CreatePack reads .bod files and writes a deduplicated, zstd-compressed
// .bodpack to outputFile.
func CreatePack(inputFiles []string, outputFile string) error {
	return CreatePackWith(inputFiles, outputFile, bod.LayoutDedup, bod.PackCompZstd)
}

// CreatePackWith is CreatePack with an explicit layout and compression.
// Every input must decode as a .bod file.
func CreatePackWith(inputFiles []string, outputFile string, layout bod.PackLayout, comp bod.PackCompression) error {
	if len(inputFiles) == 0 {
		return fmt.Errorf("no .bod files provided")
	}
	type item struct {
		name string
		data []byte
		err  error
	}
	items := make([]item, len(inputFiles))

	var wg sync.WaitGroup
	for i := range inputFiles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := inputFiles[i]
			b, err := os.ReadFile(path)
			if err != nil {
				items[i].err = err
				return
			}
			if _, err := bod.LoadFromBytes(b); err != nil {
				items[i].err = fmt.Errorf("%s: %w", path, err)
				return
			}
			items[i] = item{name: filepath.Base(path), data: b}
		}(i)
	}
	wg.Wait()

	pack := &bod.Pack{Entries: make([]bod.PackEntry, len(items))}
	for i, it := range items {
		if it.err != nil {
			return it.err
		}
		pack.Entries[i] = bod.PackEntry{Name: it.name, Data: it.data}
	}
	start := time.Now()
	data, err := pack.MarshalEx(layout, comp)
	if err != nil {
		return err
	}
	Logger.Info("pack built", "entries", len(items), "bytes", len(data), "elapsed", time.Since(start))
	return os.WriteFile(outputFile, data, 0o644)
}

// UnpackToDir writes the .bod files of a .bodpack into outputDir.
func UnpackToDir(packFile, outputDir string) error {
	data, err := os.ReadFile(packFile)
	if err != nil {
		return err
	}
	pack, _, err := bod.UnmarshalPack(data)
	if err != nil {
		return err
	}
	// Entry names come from the file; keep them inside outputDir and
	// refuse two entries landing on the same path.
	names := make([]string, len(pack.Entries))
	seen := make(map[string]string, len(pack.Entries))
	for i, e := range pack.Entries {
		name := filepath.Base(filepath.Clean("/" + e.Name))
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("entries %q and %q both unpack to %s", prev, e.Name, name)
		}
		seen[name] = e.Name
		names[i] = name
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	var wg sync.WaitGroup
	errCh := make(chan error, len(pack.Entries))
	for i, e := range pack.Entries {
		wg.Add(1)
		go func(name string, e bod.PackEntry) {
			defer wg.Done()
			if err := os.WriteFile(filepath.Join(outputDir, name), e.Data, 0o644); err != nil {
				errCh <- err
			}
		}(names[i], e)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	Logger.Info("pack unpacked", "in", packFile, "dir", outputDir, "entries", len(pack.Entries))
	return nil
}

// UnpackToMemory returns entry names and raw .bod bytes without writing to disk.
func UnpackToMemory(packFile string) ([]string, [][]byte, error) {
	data, err := os.ReadFile(packFile)
	if err != nil {
		return nil, nil, err
	}
	pack, _, err := bod.UnmarshalPack(data)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(pack.Entries))
	blobs := make([][]byte, len(pack.Entries))
	for i, e := range pack.Entries {
		names[i] = e.Name
		blobs[i] = e.Data
	}
	return names, blobs, nil
}
