package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// LogUploader ships the local log file to the bucket.
type LogUploader interface {
	UploadToS3Bucket(ctx context.Context, objectKey string) error
}

// Time allowed for a single upload.
const uploadTimeout = 2 * time.Minute

// ShipLogs uploads the current log file under a key for the given time.
func ShipLogs(uploader LogUploader, now time.Time, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	key := LogObjectKey(now)
	if err := uploader.UploadToS3Bucket(ctx, key); err != nil {
		log.Error("couldn't ship the logs", zap.String("key", key), zap.Error(err))
		return err
	}

	log.Info("logs shipped", zap.String("key", key))
	return nil
}

// LogObjectKey returns the bucket key, logs/yyyy/mm/dd/unix.log in UTC.
func LogObjectKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("logs/%04d/%02d/%02d/%d.log", t.Year(), t.Month(), t.Day(), t.Unix())
}
