package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dlc-updater/core/storage"

	"github.com/klauspost/compress/zip"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const dateLayout = "2006.01.02"

// Result describes one archive run.
type Result struct {
	// Path is the local archive file.
	Path string `json:"path"`
	// Object is the uploaded object name, empty when upload is disabled.
	Object string `json:"object,omitempty"`
	// Pruned lists the uploaded archives removed by retention.
	Pruned []string `json:"pruned,omitempty"`
}

// Archiver zips the patch directories and optionally uploads the result.
type Archiver struct {
	cfg    Config
	dirs   []string
	logger *zap.Logger
	now    func() time.Time

	client storage.Client
	store  storage.Config
}

// New creates an archiver for dirs. Each directory becomes a top-level folder in the zip.
func New(cfg Config, dirs []string, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{
		cfg:    cfg,
		dirs:   dirs,
		logger: logger,
		now:    time.Now,
	}
}

// WithUpload enables upload of every built archive to the object store.
func (a *Archiver) WithUpload(client storage.Client, cfg storage.Config) *Archiver {
	a.client = client
	a.store = cfg
	return a
}

// FileName returns the dated archive name, e.g. "【2024.05.01】P社游戏DLC补丁.zip".
func (a *Archiver) FileName(t time.Time) string {
	return "【" + t.Format(dateLayout) + "】" + a.cfg.Name + ".zip"
}

// Run builds the archive, uploads it and prunes old uploads.
// A failed upload is returned as an error; the local archive is kept.
func (a *Archiver) Run(ctx context.Context) (*Result, error) {
	path, err := a.Build(ctx)
	if err != nil {
		return nil, err
	}
	result := &Result{Path: path}

	if a.client == nil {
		return result, nil
	}

	object, err := a.Upload(ctx, path)
	if err != nil {
		return result, err
	}
	result.Object = object

	pruned, err := a.Prune(ctx)
	result.Pruned = pruned
	if err != nil {
		a.logger.Warn("Failed to prune old archives", zap.Error(err))
	}
	return result, nil
}

// Build writes the archive for today into the output directory, replacing an
// archive of the same day.
func (a *Archiver) Build(ctx context.Context) (string, error) {
	for _, dir := range a.dirs {
		info, err := os.Stat(dir)
		if err != nil {
			return "", fmt.Errorf("patch directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("patch directory %s: not a directory", dir)
		}
	}

	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	target := filepath.Join(a.cfg.OutputDir, a.FileName(a.now()))
	tmp, err := os.CreateTemp(a.cfg.OutputDir, ".archive-*.zip")
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	if err := a.write(ctx, tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to move archive into place: %w", err)
	}

	a.logger.Info("Created archive", zap.String("path", target))
	return target, nil
}

func (a *Archiver) write(ctx context.Context, f *os.File) error {
	zw := zip.NewWriter(f)

	for _, dir := range a.dirs {
		root := filepath.Base(filepath.Clean(dir))

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return fmt.Errorf("failed to get relative path: %w", err)
			}
			name := filepath.ToSlash(filepath.Join(root, rel))

			if d.IsDir() {
				_, err := zw.Create(name + "/")
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			return addFile(zw, path, name, d)
		})
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to archive %s: %w", dir, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = name
	header.Method = zip.Deflate

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create zip entry: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Upload puts the archive at path into the configured bucket and returns its object name.
func (a *Archiver) Upload(ctx context.Context, path string) (string, error) {
	if a.client == nil {
		return "", errors.New("archive upload not configured")
	}

	if err := storage.EnsureBucket(ctx, a.client, a.store.Bucket, a.store.Region); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat archive: %w", err)
	}

	object := a.store.Prefix + filepath.Base(path)
	_, err = a.client.PutObject(ctx, a.store.Bucket, object, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}

	a.logger.Info("Uploaded archive",
		zap.String("bucket", a.store.Bucket),
		zap.String("object", object),
		zap.Int64("size", info.Size()),
	)
	return object, nil
}

// Prune removes the oldest uploaded archives beyond the retention count.
// The date stamp leads every name, so lexical order is chronological.
func (a *Archiver) Prune(ctx context.Context) ([]string, error) {
	if a.client == nil || a.cfg.Retain <= 0 {
		return nil, nil
	}

	objects, err := a.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(objects) <= a.cfg.Retain {
		return nil, nil
	}

	stale := objects[:len(objects)-a.cfg.Retain]
	var removed []string
	for _, key := range stale {
		if err := a.client.RemoveObject(ctx, a.store.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", key, err)
		}
		a.logger.Info("Removed old archive", zap.String("object", key))
		removed = append(removed, key)
	}
	return removed, nil
}

// List returns the uploaded archive object names, oldest first.
func (a *Archiver) List(ctx context.Context) ([]string, error) {
	if a.client == nil {
		return nil, errors.New("archive upload not configured")
	}

	// stops the listing goroutine when we return early on an error
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	suffix := "】" + a.cfg.Name + ".zip"
	var keys []string
	for obj := range a.client.ListObjects(ctx, a.store.Bucket, minio.ListObjectsOptions{
		Prefix:    a.store.Prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archives: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, suffix) {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
