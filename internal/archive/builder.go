package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"VelArchiver/internal/config"
)

// Builder serializes a directory into a tar stream and compresses it in a
// second pass, so the container bytes never depend on compressor buffering.
type Builder struct {
	format string
	level  int
	log    *logrus.Logger
}

// Result describes one finished archive build. OriginalBytes is the size of
// the uncompressed container, the baseline for savings reporting.
type Result struct {
	Path            string
	OriginalBytes   int64
	CompressedBytes int64
}

func New(format string, level int, log *logrus.Logger) *Builder {
	return &Builder{format: format, level: level, log: log}
}

// Extension returns the output suffix for the configured format, with the
// leading dot.
func (b *Builder) Extension() string {
	if b.format == config.FormatZstd {
		return ".tar.zst"
	}
	return ".tar.gz"
}

// ContentType returns the media type declared on upload.
func (b *Builder) ContentType() string {
	if b.format == config.FormatZstd {
		return "application/zstd"
	}
	return "application/gzip"
}

// Build archives sourceDir into <stem><ext>. Entry paths are prefixed with
// sourceDir's base name, entry order is sorted directory traversal. The
// intermediate <stem>.tar never survives the call, and a failed build leaves
// no output file behind.
func (b *Builder) Build(ctx context.Context, sourceDir, stem string) (*Result, error) {
	tarPath := stem + ".tar"
	outPath := stem + b.Extension()

	originalBytes, err := writeTar(ctx, sourceDir, tarPath)
	if err != nil {
		os.Remove(tarPath)
		return nil, err
	}
	defer os.Remove(tarPath)

	if err := compressFile(tarPath, outPath, b.format, b.level); err != nil {
		os.Remove(outPath)
		return nil, err
	}
	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", outPath, err)
	}

	b.log.Infof("Created archive %s", outPath)
	return &Result{
		Path:            outPath,
		OriginalBytes:   originalBytes,
		CompressedBytes: info.Size(),
	}, nil
}

func writeTar(ctx context.Context, sourceDir, tarPath string) (int64, error) {
	out, err := os.Create(tarPath)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", tarPath, err)
	}
	tw := tar.NewWriter(out)

	walkErr := addTree(ctx, tw, sourceDir, filepath.Base(filepath.Clean(sourceDir)))
	twErr := tw.Close()
	outErr := out.Close()
	if walkErr != nil {
		return 0, walkErr
	}
	if twErr != nil {
		return 0, fmt.Errorf("finish %s: %w", tarPath, twErr)
	}
	if outErr != nil {
		return 0, fmt.Errorf("close %s: %w", tarPath, outErr)
	}

	info, err := os.Stat(tarPath)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", tarPath, err)
	}
	return info.Size(), nil
}

func addTree(ctx context.Context, tw *tar.Writer, dir, name string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("archive %s: %w", dir, err)
	}
	if err := writeHeader(tw, info, name+"/"); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("archive %s: %w", dir, err)
	}
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		path := filepath.Join(dir, entry.Name())
		entryName := name + "/" + entry.Name()
		switch {
		case entry.IsDir():
			if err := addTree(ctx, tw, path, entryName); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := addFile(tw, path, entryName); err != nil {
				return err
			}
		default:
			return fmt.Errorf("archive %s: unsupported entry type %v", path, entry.Type())
		}
	}
	return nil
}

func addFile(tw *tar.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	if err := writeHeader(tw, info, name); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	return nil
}

func writeHeader(tw *tar.Writer, info os.FileInfo, name string) error {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("archive %s: %w", name, err)
	}
	hdr.Name = name
	// Access and change times churn between otherwise identical builds;
	// drop them so rebuilding the same tree stays byte-reproducible.
	hdr.AccessTime = time.Time{}
	hdr.ChangeTime = time.Time{}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("archive %s: %w", name, err)
	}
	return nil
}
