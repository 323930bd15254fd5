package goctl

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// BackupSuffix is appended to the document path to name its backup copy.
const BackupSuffix = ".bak"

// BackupFile copies path to path+".bak" and returns the backup path.
// A missing path is not an error; nothing is copied and "" is returned.
func BackupFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %w", ErrBackup, err)
	}

	backup := path + BackupSuffix
	if err := copyFile(path, backup); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrBackup, backup, err)
	}
	return backup, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
