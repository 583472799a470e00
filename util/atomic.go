package util

import "os"

// WriteFileAtomic writes data to a temporary sibling of path and renames
// it over path. A crash mid-write never leaves a truncated file at the
// canonical location; readers observe either the old content or the new.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
