package filesystem

import (
	"io"
	"os"
	"path/filepath"
)

// PartialSuffix marks files that are still being written.
const PartialSuffix = ".part"

// WriteAtomic copies r into path. The data lands in a sibling partial file first and is renamed
// over path only once fully written, so an interrupted download or capture never leaves a
// truncated file under the final name.
func WriteAtomic(path string, r io.Reader) (int64, error) {
	if err := API().MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return 0, err
	}

	partial := path + PartialSuffix
	file, err := API().Create(partial)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(file, r)
	if err != nil {
		_ = file.Close()
		_ = API().Remove(partial)
		return written, err
	}

	if err := file.Close(); err != nil {
		_ = API().Remove(partial)
		return written, err
	}

	return written, API().Rename(partial, path)
}
