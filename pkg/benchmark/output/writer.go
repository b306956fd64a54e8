package output

import (
	"context"
	"io"
	"os"

	"github.com/christophwitzko/csvbench/pkg/logger"
)

func openWriter(ctx context.Context, log *logger.Logger, t Target, path string) (io.WriteCloser, error) {
	if t.Schema == "file" {
		return openFile(path)
	}
	return openGCS(ctx, log, t.Bucket, path, contentTypes[t.Type])
}

type stdoutWriter struct {
	io.Writer
}

func (stdoutWriter) Close() error {
	return nil
}

type syncedFile struct {
	*os.File
}

func (f syncedFile) Close() error {
	_ = f.Sync()
	return f.File.Close()
}

func openFile(path string) (io.WriteCloser, error) {
	if path == "-" {
		return stdoutWriter{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return syncedFile{f}, nil
}
