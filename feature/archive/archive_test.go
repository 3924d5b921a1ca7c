package archive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"dlc-updater/core/storage"
	"dlc-updater/core/storage/mocks"

	"github.com/klauspost/compress/zip"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)

func setupDirs(t *testing.T) (string, []string) {
	t.Helper()
	base := t.TempDir()
	block := filepath.Join(base, "正版DLC破解补丁")
	flat := filepath.Join(base, "局域网DLC破解补丁")

	require.NoError(t, os.MkdirAll(block, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(flat, "steam_settings"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(block, "cream_api.ini"), []byte("; Stellaris\n[dlc]\n100 = A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(flat, "steam_settings", "DLC.txt"), []byte("# Stellaris\n100 = A\n"), 0o644))

	return base, []string{block, flat}
}

func newTestArchiver(t *testing.T, dirs []string, cfg Config) *Archiver {
	t.Helper()
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	}
	if cfg.Name == "" {
		cfg.Name = "P社游戏DLC补丁"
	}
	a := New(cfg, dirs, zap.NewNop())
	a.now = func() time.Time { return fixedNow }
	return a
}

func readZip(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	out := make(map[string]string)
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			out[f.Name] = ""
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[f.Name] = string(data)
	}
	return out
}

func TestFileName(t *testing.T) {
	a := New(Config{Name: "P社游戏DLC补丁"}, nil, nil)
	assert.Equal(t, "【2024.05.01】P社游戏DLC补丁.zip", a.FileName(fixedNow))
}

func TestBuild(t *testing.T) {
	_, dirs := setupDirs(t)
	a := newTestArchiver(t, dirs, Config{})

	path, err := a.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "【2024.05.01】P社游戏DLC补丁.zip", filepath.Base(path))

	entries := readZip(t, path)
	assert.Equal(t, map[string]string{
		"正版DLC破解补丁/":                           "",
		"正版DLC破解补丁/cream_api.ini":              "; Stellaris\n[dlc]\n100 = A\n",
		"局域网DLC破解补丁/":                          "",
		"局域网DLC破解补丁/steam_settings/":           "",
		"局域网DLC破解补丁/steam_settings/DLC.txt":    "# Stellaris\n100 = A\n",
	}, entries)

	files, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, files, 1, "temp file must be renamed into place")
}

func TestBuild_ReplacesSameDay(t *testing.T) {
	_, dirs := setupDirs(t)
	a := newTestArchiver(t, dirs, Config{})

	first, err := a.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dirs[0], "cream_api.ini"), []byte("changed"), 0o644))

	second, err := a.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "changed", readZip(t, second)["正版DLC破解补丁/cream_api.ini"])
}

func TestBuild_MissingDirectory(t *testing.T) {
	base, dirs := setupDirs(t)
	dirs = append(dirs, filepath.Join(base, "absent"))
	a := newTestArchiver(t, dirs, Config{})

	_, err := a.Build(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(a.cfg.OutputDir)
	assert.True(t, os.IsNotExist(statErr), "nothing is written when a directory is missing")
}

func TestRun_WithoutUpload(t *testing.T) {
	_, dirs := setupDirs(t)
	a := newTestArchiver(t, dirs, Config{})

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, result.Path)
	assert.Empty(t, result.Object)
}

func TestRun_UploadAndPrune(t *testing.T) {
	_, dirs := setupDirs(t)
	client := new(mocks.Client)
	storeCfg := storage.Config{Bucket: "patches", Prefix: "archive/"}
	a := newTestArchiver(t, dirs, Config{Retain: 2}).WithUpload(client, storeCfg)

	object := "archive/【2024.05.01】P社游戏DLC补丁.zip"
	client.On("BucketExists", mock.Anything, "patches").Return(true, nil)
	client.On("PutObject", mock.Anything, "patches", object, mock.Anything, mock.AnythingOfType("int64"),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "application/zip" })).
		Return(minio.UploadInfo{Key: object}, nil)
	client.On("ListObjects", mock.Anything, "patches", minio.ListObjectsOptions{Prefix: "archive/", Recursive: true}).
		Return([]minio.ObjectInfo{
			{Key: object},
			{Key: "archive/【2024.03.01】P社游戏DLC补丁.zip"},
			{Key: "archive/notes.txt"},
			{Key: "archive/【2024.04.01】P社游戏DLC补丁.zip"},
			{Key: "archive/【2023.12.24】P社游戏DLC补丁.zip"},
		})
	client.On("RemoveObject", mock.Anything, "patches", mock.Anything, minio.RemoveObjectOptions{}).Return(nil)

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, object, result.Object)
	assert.Equal(t, []string{
		"archive/【2023.12.24】P社游戏DLC补丁.zip",
		"archive/【2024.03.01】P社游戏DLC补丁.zip",
	}, result.Pruned)
	client.AssertNumberOfCalls(t, "RemoveObject", 2)
}

func TestUpload_CreatesBucket(t *testing.T) {
	_, dirs := setupDirs(t)
	client := new(mocks.Client)
	a := newTestArchiver(t, dirs, Config{}).WithUpload(client, storage.Config{Bucket: "patches", Region: "eu"})

	path, err := a.Build(context.Background())
	require.NoError(t, err)

	client.On("BucketExists", mock.Anything, "patches").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "patches", minio.MakeBucketOptions{Region: "eu"}).Return(nil)
	client.On("PutObject", mock.Anything, "patches", filepath.Base(path), mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	object, err := a.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(path), object)
	client.AssertExpectations(t)
}

func TestRun_UploadFailureKeepsLocalArchive(t *testing.T) {
	_, dirs := setupDirs(t)
	client := new(mocks.Client)
	a := newTestArchiver(t, dirs, Config{}).WithUpload(client, storage.Config{Bucket: "patches"})

	client.On("BucketExists", mock.Anything, "patches").Return(false, errors.New("connection refused"))

	result, err := a.Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, result)
	assert.FileExists(t, result.Path)
}

func TestList_Sorted(t *testing.T) {
	client := new(mocks.Client)
	a := New(Config{Name: "x"}, nil, nil).WithUpload(client, storage.Config{Bucket: "b"})
	client.On("ListObjects", mock.Anything, "b", mock.Anything).Return([]minio.ObjectInfo{
		{Key: "【2024.02.01】x.zip"},
		{Key: "【2024.01.01】x.zip"},
	})

	keys, err := a.List(context.Background())
	require.NoError(t, err)
	assert.True(t, sort.StringsAreSorted(keys))
	assert.Len(t, keys, 2)
}

func TestList_ErrorStopsListing(t *testing.T) {
	client := new(mocks.Client)
	a := New(Config{Name: "x"}, nil, nil).WithUpload(client, storage.Config{Bucket: "b"})

	var listCtx context.Context
	client.On("ListObjects", mock.Anything, "b", mock.Anything).
		Run(func(args mock.Arguments) { listCtx = args.Get(0).(context.Context) }).
		Return([]minio.ObjectInfo{
			{Err: errors.New("access denied")},
			{Key: "【2024.01.01】x.zip"},
		})

	_, err := a.List(context.Background())
	assert.ErrorContains(t, err, "access denied")
	require.NotNil(t, listCtx)
	assert.ErrorIs(t, listCtx.Err(), context.Canceled)
}
