package fs

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Local implements Storage on top of a directory on disk.
// Names are slash separated and never resolve outside of the root directory.
type Local struct {
	rootDir string
}

func NewLocal(rootDir string) (*Local, error) {
	if rootDir == "" {
		return nil, errors.New("root directory can't be empty")
	}

	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve root directory: %s", rootDir)
	}

	return &Local{rootDir: abs}, nil
}

// Create writes reader to a temporary file and renames it into place,
// so readers of name never observe a partially written file.
func (l *Local) Create(ctx context.Context, name string, reader io.Reader) (int64, error) {
	logger := log.WithField("name", name)

	filePath, err := l.resolve(name)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(filePath)
	logger.Debugf("creating directory: %s", dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, errors.Wrapf(err, "failed to create directory: %s", dir)
	}

	logger.Debugf("copying to: %s", filePath)
	written, err := l.copyFile(reader, filePath)
	if err != nil {
		return 0, errors.Wrap(err, "failed to copy file")
	}

	logger.Debugf("copied %d bytes", written)
	return written, nil
}

func (l *Local) Size(ctx context.Context, name string) (int64, error) {
	filePath, err := l.resolve(name)
	if err != nil {
		return 0, err
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}

	if stat.IsDir() {
		return 0, errors.Errorf("%s is a directory", name)
	}

	return stat.Size(), nil
}

// Path returns the location on disk of a file name.
func (l *Local) Path(name string) (string, error) {
	return l.resolve(name)
}

func (l *Local) resolve(name string) (string, error) {
	cleaned := path.Clean("/" + filepath.ToSlash(name))
	if cleaned == "/" {
		return "", errors.New("file name can't be empty")
	}

	return filepath.Join(l.rootDir, filepath.FromSlash(cleaned)), nil
}

func (l *Local) copyFile(source io.Reader, destinationPath string) (int64, error) {
	dest, err := os.CreateTemp(filepath.Dir(destinationPath), ".podgen-*")
	if err != nil {
		return 0, errors.Wrap(err, "failed to create temporary file")
	}

	tmpPath := dest.Name()
	defer os.Remove(tmpPath)

	written, err := io.Copy(dest, source)
	if err != nil {
		dest.Close()
		return 0, errors.Wrap(err, "failed to copy data")
	}

	if err := dest.Close(); err != nil {
		return 0, errors.Wrap(err, "failed to close temporary file")
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		return 0, errors.Wrap(err, "failed to set file mode")
	}

	if err := os.Rename(tmpPath, destinationPath); err != nil {
		return 0, errors.Wrap(err, "failed to move file into place")
	}

	return written, nil
}
