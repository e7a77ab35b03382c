package checks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"lighting-patcher/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// CheckStorage returns the objects the bucket source needs but cannot find.
// Only the plugins file is required; plugin documents are covered by the
// load order check.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix, pluginsFile string) ([]string, error) {
	var missing []string

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	objectName := PluginsObject(prefix, pluginsFile)
	opts := minio.ListObjectsOptions{
		Prefix:    objectName,
		Recursive: false,
		MaxKeys:   1,
	}

	found := false
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err == nil && obj.Key == objectName {
			found = true
		}
		break
	}

	if !found {
		missing = append(missing, objectName)
	}

	return missing, nil
}

// PluginsObject returns the object name of the plugins file under prefix.
func PluginsObject(prefix, pluginsFile string) string {
	return path.Join(strings.Trim(prefix, "/"), pluginsFile)
}

// FixStorage creates the bucket if needed and an empty object for every
// missing name, so the bucket source starts from an empty load order.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger, missing []string) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		return err
	}

	for _, objectName := range missing {
		_, err := client.PutObject(ctx, bucket, objectName, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{
			ContentType: "text/plain",
		})
		if err != nil {
			logger.Error("Failed to create object", zap.String("object", objectName), zap.Error(err))
			return err
		}
		logger.Info("Created missing object", zap.String("object", objectName))
	}
	return nil
}
