package utils

import (
	"os"

	"github.com/pkg/errors"
)

// ErrExists is returned when an output file is already present.
var ErrExists = errors.New("output file already exists")

func OpenFile(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open "+path)
	}
	return file, nil
}

// OpenSequential opens a file that will be read front to back exactly once.
func OpenSequential(path string) (*os.File, error) {
	file, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	adviseSequential(file)
	return file, nil
}

// CreateFile creates or truncates the file at path.
func CreateFile(path string) (*os.File, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not create "+path)
	}
	return file, nil
}

// CreateExclusive creates the file at path, failing with ErrExists if it is already present.
func CreateExclusive(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.Wrap(ErrExists, path)
		}
		return nil, errors.Wrap(err, "could not create "+path)
	}
	return file, nil
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrap(err, "could not stat "+path)
	}
	return info.Size(), nil
}
