package storefs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-qrexport/qrcode"
)

// ArtifactMeta describes a stored export.
type ArtifactMeta struct {
	ID          string        `json:"id,omitempty"`
	Filename    string        `json:"filename,omitempty"`
	Format      qrcode.Format `json:"format,omitempty"`
	ContentType string        `json:"content_type,omitempty"`
	Payload     string        `json:"payload,omitempty"`
	Resolution  int           `json:"resolution,omitempty"`
	Size        int64         `json:"size"`
	CreatedAt   time.Time     `json:"created_at"`
}

// MetaFromResult copies export details into artifact metadata.
func MetaFromResult(result qrcode.ExportResult) ArtifactMeta {
	return ArtifactMeta{
		ID:          result.ID,
		Filename:    result.Filename,
		Format:      result.Format,
		ContentType: result.ContentType,
		Payload:     result.Payload,
		Resolution:  result.Resolution,
	}
}

// ArtifactRef points to a stored artifact.
type ArtifactRef struct {
	Key  string
	Path string
	Meta ArtifactMeta
}

// Store writes exports below Root. Files land atomically through a temp file
// and rename; Sidecar adds a "<name>.meta.json" next to each file.
type Store struct {
	Root      string
	Sidecar   bool
	Overwrite bool
	Now       func() time.Time
}

// NewStore creates a filesystem-backed artifact store.
func NewStore(root string) *Store {
	return &Store{Root: root, Now: time.Now}
}

// Writer buffers an artifact in a temp file until Commit names it.
type Writer struct {
	store *Store
	tmp   *os.File
	size  int64
	done  bool
}

// NewWriter opens a temp file under Root.
func (s *Store) NewWriter(ctx context.Context) (*Writer, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(root, ".qrexport-*")
	if err != nil {
		return nil, err
	}
	return &Writer{store: s, tmp: tmp}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.done {
		return 0, qrcode.NewError(qrcode.KindInternal, "artifact writer is closed", nil)
	}
	n, err := w.tmp.Write(p)
	w.size += int64(n)
	return n, err
}

// Commit moves the temp file to key and records its metadata.
func (w *Writer) Commit(key string, meta ArtifactMeta) (ArtifactRef, error) {
	if w.done {
		return ArtifactRef{}, qrcode.NewError(qrcode.KindInternal, "artifact writer is closed", nil)
	}
	defer w.Abort()

	s := w.store
	target, err := s.resolvePath(key)
	if err != nil {
		return ArtifactRef{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return ArtifactRef{}, err
	}
	if err := w.tmp.Sync(); err != nil {
		return ArtifactRef{}, err
	}
	if err := w.tmp.Close(); err != nil {
		return ArtifactRef{}, err
	}
	if s.Overwrite {
		if err := os.Rename(w.tmp.Name(), target); err != nil {
			return ArtifactRef{}, err
		}
	} else if err := os.Link(w.tmp.Name(), target); err != nil {
		// Link fails atomically when target exists; Abort drops the temp name.
		if os.IsExist(err) {
			return ArtifactRef{}, qrcode.NewError(qrcode.KindValidation, fmt.Sprintf("artifact %q already exists", key), nil)
		}
		return ArtifactRef{}, err
	}

	meta.Size = w.size
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.now()
	}
	if meta.Filename == "" {
		meta.Filename = filepath.Base(target)
	}
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(target))
	}
	if s.Sidecar {
		if err := writeMeta(target, meta); err != nil {
			return ArtifactRef{}, err
		}
	}
	return ArtifactRef{Key: key, Path: target, Meta: meta}, nil
}

// Abort discards the temp file. It is safe after Commit.
func (w *Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	_ = w.tmp.Close()
	if err := os.Remove(w.tmp.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Put stores the contents of r under key.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, meta ArtifactMeta) (ArtifactRef, error) {
	if _, err := s.resolveKey(key); err != nil {
		return ArtifactRef{}, err
	}
	w, err := s.NewWriter(ctx)
	if err != nil {
		return ArtifactRef{}, err
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Abort()
		return ArtifactRef{}, err
	}
	return w.Commit(key, meta)
}

// Open reads an artifact from disk.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, ArtifactMeta, error) {
	if err := s.check(ctx); err != nil {
		return nil, ArtifactMeta{}, err
	}
	target, err := s.resolveKey(key)
	if err != nil {
		return nil, ArtifactMeta{}, err
	}

	file, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ArtifactMeta{}, qrcode.NewError(qrcode.KindNotFound, fmt.Sprintf("artifact %q not found", key), err)
		}
		return nil, ArtifactMeta{}, err
	}

	meta := readMeta(target)
	if meta.Filename == "" {
		meta.Filename = filepath.Base(target)
	}
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(target))
	}
	if meta.Size == 0 {
		if info, err := file.Stat(); err == nil {
			meta.Size = info.Size()
			if meta.CreatedAt.IsZero() {
				meta.CreatedAt = info.ModTime()
			}
		}
	}
	return file, meta, nil
}

// Delete removes an artifact and its sidecar.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	target, err := s.resolveKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	_ = os.Remove(metaPath(target))
	return nil
}

func (s *Store) check(ctx context.Context) error {
	if s == nil {
		return qrcode.NewError(qrcode.KindInternal, "store is nil", nil)
	}
	if s.Root == "" {
		return qrcode.NewError(qrcode.KindValidation, "store root is required", nil)
	}
	if ctx != nil {
		return ctx.Err()
	}
	return nil
}

func (s *Store) resolveKey(key string) (string, error) {
	if s == nil {
		return "", qrcode.NewError(qrcode.KindInternal, "store is nil", nil)
	}
	if s.Root == "" {
		return "", qrcode.NewError(qrcode.KindValidation, "store root is required", nil)
	}
	return s.resolvePath(key)
}

func (s *Store) resolvePath(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", qrcode.NewError(qrcode.KindValidation, "artifact key is required", nil)
	}
	if strings.HasPrefix(key, "/") || slices.Contains(strings.Split(filepath.ToSlash(key), "/"), "..") {
		return "", qrcode.NewError(qrcode.KindValidation, "artifact key escapes root", nil)
	}
	rel := strings.TrimPrefix(path.Clean("/"+key), "/")
	if rel == "" || rel == "." || strings.HasSuffix(rel, ".meta.json") {
		return "", qrcode.NewError(qrcode.KindValidation, "invalid artifact key", nil)
	}

	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", qrcode.NewError(qrcode.KindValidation, "artifact key escapes root", nil)
	}
	return target, nil
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func writeMeta(target string, meta ArtifactMeta) error {
	payload, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".meta-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(payload); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), metaPath(target))
}

func readMeta(target string) ArtifactMeta {
	data, err := os.ReadFile(metaPath(target))
	if err != nil {
		return ArtifactMeta{}
	}
	var meta ArtifactMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return ArtifactMeta{}
	}
	return meta
}

func metaPath(target string) string {
	return target + ".meta.json"
}
