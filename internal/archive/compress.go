package archive

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"VelArchiver/internal/config"
)

// compressFile compresses src into dst in a single pass. The gzip header
// carries no mod time and the zstd encoder runs single-threaded, so the
// output depends only on the input bytes, format and level.
func compressFile(src, dst, format string, level int) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	var (
		w       io.WriteCloser
		initErr error
	)
	switch format {
	case config.FormatZstd:
		w, initErr = zstd.NewWriter(out,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
			zstd.WithEncoderConcurrency(1),
		)
	default:
		w, initErr = gzip.NewWriterLevel(out, level)
	}
	if initErr != nil {
		out.Close()
		return fmt.Errorf("compress %s: %w", src, initErr)
	}

	_, copyErr := io.Copy(w, in)
	closeErr := w.Close()
	outErr := out.Close()

	switch {
	case copyErr != nil:
		return fmt.Errorf("compress %s: %w", src, copyErr)
	case closeErr != nil:
		return fmt.Errorf("compress %s: %w", src, closeErr)
	case outErr != nil:
		return fmt.Errorf("close %s: %w", dst, outErr)
	}
	return nil
}
