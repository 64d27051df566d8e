package downloadmgr

import (
	"crypto/sha1"
	"fmt"
	"io"
	"os"
)

// ErrInvalidSha is returned when a file's sha1 sum does not match the
// expected one
type ErrInvalidSha struct {
	FileName    string
	ExpectedSha string
	ActualSha   string
}

func (e *ErrInvalidSha) Error() string {
	return fmt.Sprintf(
		"File corrupted: %s sha1 is invalid.\n\texpected to be \"%s\"\n\tbut actually is \"%s\"\n",
		e.FileName,
		e.ExpectedSha,
		e.ActualSha,
	)
}

// FileSha1 returns the hex encoded sha1 sum of the file at path
func FileSha1(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	hasher := sha1.New()
	if _, err := io.Copy(hasher, src); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// VerifySha1 checks the file at path against the expected sha1 sum.
// A mismatch returns *ErrInvalidSha. The file is left in place either way,
// a following download attempt overwrites it.
func VerifySha1(path string, sha string) error {
	actual, err := FileSha1(path)
	if err != nil {
		return err
	}
	if actual != sha {
		return &ErrInvalidSha{FileName: path, ExpectedSha: sha, ActualSha: actual}
	}
	return nil
}
