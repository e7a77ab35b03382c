package datastore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"lighting-patcher/core/plugin"
	"lighting-patcher/core/storage"

	"github.com/minio/minio-go/v7"
)

// BucketStore reads plugin documents from, and publishes patches to, an
// object storage bucket. Objects live under prefix.
type BucketStore struct {
	client      storage.Client
	bucket      string
	region      string
	prefix      string
	pluginsFile string
	format      plugin.Format
}

// NewBucketStore creates a bucket-backed source and sink.
func NewBucketStore(client storage.Client, cfg storage.Config, prefix, pluginsFile string, format plugin.Format) *BucketStore {
	return &BucketStore{
		client:      client,
		bucket:      cfg.Bucket,
		region:      cfg.Region,
		prefix:      strings.Trim(prefix, "/"),
		pluginsFile: pluginsFile,
		format:      format,
	}
}

// Name implements plugin.Source and plugin.Sink.
func (s *BucketStore) Name() string { return plugin.SourceBucket }

func (s *BucketStore) objectName(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// ReadLoadOrder implements plugin.Source.
func (s *BucketStore) ReadLoadOrder(ctx context.Context) ([]plugin.Entry, error) {
	data, err := s.get(ctx, s.objectName(s.pluginsFile))
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("plugins file %s not found in bucket %s", s.objectName(s.pluginsFile), s.bucket)
		}
		return nil, err
	}
	return plugin.ParsePluginsFile(bytes.NewReader(data))
}

// ReadMod implements plugin.Source. Extensions are probed in
// plugin.DocumentExtensions order.
func (s *BucketStore) ReadMod(ctx context.Context, key plugin.ModKey) (*plugin.Mod, error) {
	for _, ext := range plugin.DocumentExtensions() {
		name := s.objectName(key.FileName() + ext)
		data, err := s.get(ctx, name)
		if storage.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}

		format, _ := plugin.FormatFromPath(name)
		mod, err := plugin.DecodeMod(bytes.NewReader(data), format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return mod, nil
	}
	return nil, plugin.ErrModNotFound
}

func (s *BucketStore) get(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get object %s: %w", objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read object %s: %w", objectName, err)
	}
	return data, nil
}

// WriteMod implements plugin.Sink. The bucket is created when missing and
// documents of the same plugin in other formats are removed.
func (s *BucketStore) WriteMod(ctx context.Context, mod *plugin.Mod) (string, error) {
	if err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := plugin.EncodeMod(&buf, mod, s.format); err != nil {
		return "", err
	}

	name := s.objectName(plugin.DocumentName(mod.ModKey, s.format))
	opts := minio.PutObjectOptions{ContentType: contentType(s.format)}
	if _, err := s.client.PutObject(ctx, s.bucket, name, &buf, int64(buf.Len()), opts); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}

	if err := s.removeStale(ctx, mod.ModKey, name); err != nil {
		return "", err
	}

	return s.bucket + "/" + name, nil
}

// removeStale deletes other-format documents of key.
func (s *BucketStore) removeStale(ctx context.Context, key plugin.ModKey, keep string) error {
	documents := make(map[string]struct{})
	for _, ext := range plugin.DocumentExtensions() {
		documents[s.objectName(key.FileName()+ext)] = struct{}{}
	}

	var stale []minio.ObjectInfo
	listPrefix := s.objectName(key.FileName() + ".")
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: listPrefix}) {
		if obj.Err != nil {
			return fmt.Errorf("failed to list %s: %w", listPrefix, obj.Err)
		}
		if obj.Key == keep {
			continue
		}
		if _, ok := documents[obj.Key]; ok {
			stale = append(stale, obj)
		}
	}
	if len(stale) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, obj := range stale {
		objectsCh <- obj
	}
	close(objectsCh)

	for rerr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			return fmt.Errorf("failed to remove %s: %w", rerr.ObjectName, rerr.Err)
		}
	}
	return nil
}

func contentType(format plugin.Format) string {
	if format == plugin.FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}
