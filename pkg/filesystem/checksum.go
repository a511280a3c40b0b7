package filesystem

import (
	"crypto/sha256"
	"fmt"

	"github.com/andparsons/composer-project-files-installer/pkg/types"
)

// ChecksumBytes returns the "sha256:<hex>" digest of data
func ChecksumBytes(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

// Checksum reads the file at path through fsys and returns its digest
func Checksum(fsys types.FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", err
	}
	return ChecksumBytes(data), nil
}
