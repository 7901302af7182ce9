package store

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/svenhw/flapstats/internal/apperr"
	"github.com/svenhw/flapstats/internal/osutil"
)

const backupStampFormat = "20060102_150405"

// Backup directories are named after their creation time; anything else
// under the backups root was not made by us and is never pruned.
var backupDirPattern = regexp.MustCompile(`^\d{8}_\d{6}$`)

var (
	errBackup = &apperr.Error{
		Message: "unable to back up the dataset",
	}
	errPrune = &apperr.Error{
		Message: "unable to prune backups",
	}
)

// Backup copies the live dataset into a fresh timestamped directory
// under backupsDir and returns the directory created. The copy uses a
// read transaction, so it is consistent even mid-merge.
func (c *Client) Backup(backupsDir string) (string, error) {
	dir := filepath.Join(backupsDir, time.Now().Format(backupStampFormat))

	if err := os.MkdirAll(dir, osutil.DirPermission); err != nil {
		return "", errBackup.Wrap(err)
	}

	dst := filepath.Join(dir, filepath.Base(c.Path()))

	err := c.View(func(tx *bolt.Tx) error {
		return tx.CopyFile(dst, dbFileMode)
	})
	if err != nil {
		return "", errBackup.Wrap(err)
	}

	return dir, nil
}

// ListBackups returns the timestamped backup directory names under
// backupsDir, newest first. A missing backups root is an empty list.
func ListBackups(backupsDir string) ([]string, error) {
	entries, err := os.ReadDir(backupsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	var dirs []string

	for _, entry := range entries {
		if entry.IsDir() && backupDirPattern.MatchString(entry.Name()) {
			dirs = append(dirs, entry.Name())
		}
	}

	// stamp names sort lexically in time order
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))

	return dirs, nil
}

// Prune removes all but the newest keep backup directories and returns
// the names removed.
func Prune(backupsDir string, keep int) ([]string, error) {
	dirs, err := ListBackups(backupsDir)
	if err != nil {
		return nil, errPrune.Wrap(err)
	}

	if keep < 0 {
		keep = 0
	}

	if len(dirs) <= keep {
		return nil, nil
	}

	removed := make([]string, 0, len(dirs)-keep)

	for _, name := range dirs[keep:] {
		err = os.RemoveAll(filepath.Join(backupsDir, name))
		if err != nil {
			return removed, errPrune.Wrap(err)
		}

		removed = append(removed, name)
	}

	return removed, nil
}
