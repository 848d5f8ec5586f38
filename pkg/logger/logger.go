package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"pokelookup/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ObjectPutter is the subset of the S3 client used for shipping the logs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Logger writes structured logs to stderr and to a local file that can be shipped to a bucket.
type Logger struct {
	*zap.Logger

	mu       sync.Mutex
	logFile  *os.File
	filePath string

	bucket string
	s3     ObjectPutter
}

// Create the logger with a temporary file.
// The console output goes to the given writer, usually os.Stderr.
func New(level string, console io.Writer) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	f, err := os.CreateTemp("", "pokelookup-*.log")
	if err != nil {
		return nil, err
	}

	l := &Logger{
		logFile:  f,
		filePath: f.Name(),
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(console), lvl),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(&lockedFile{l: l}), lvl),
	)
	l.Logger = zap.New(core)

	return l, nil
}

// WithBucket enables the shipping of the log file to the given bucket.
func (l *Logger) WithBucket(cfg config.BucketConfiguration) *Logger {
	client := s3.NewFromConfig(aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.AccessSecret, ""),
		),
	}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return l.withPutter(cfg.LogBucket, client)
}

func (l *Logger) withPutter(bucket string, putter ObjectPutter) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.bucket = bucket
	l.s3 = putter
	return l
}

// Path of the local log file.
func (l *Logger) Path() string {
	return l.filePath
}

// Upload the log to a s3 bucket and clean the file.
// The snapshot is written back if the upload fails, so nothing is lost.
func (l *Logger) UploadToS3Bucket(ctx context.Context, objectKey string) error {
	l.mu.Lock()
	if l.s3 == nil {
		l.mu.Unlock()
		return fmt.Errorf("no bucket configured for %s", objectKey)
	}
	putter, bucket := l.s3, l.bucket

	snapshot, err := l.drain()
	l.mu.Unlock()
	if err != nil {
		return err
	}

	if len(snapshot) == 0 {
		return nil
	}

	_, err = putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
		Body:   bytes.NewReader(snapshot),
		ACL:    types.ObjectCannedACLPrivate,
	})
	if err != nil {
		l.mu.Lock()
		l.logFile.Write(snapshot)
		l.mu.Unlock()
		return fmt.Errorf("failed to upload %s to S3 bucket: %w", objectKey, err)
	}

	return nil
}

// Read the whole file and truncate it. Must hold the lock.
func (l *Logger) drain() ([]byte, error) {
	if _, err := l.logFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}
	snapshot, err := io.ReadAll(l.logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read the log file: %w", err)
	}
	if err := l.logFile.Truncate(0); err != nil {
		return nil, fmt.Errorf("failed to truncate the log file: %w", err)
	}
	if _, err := l.logFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}
	return snapshot, nil
}

// Close flushes the logger and removes the local file.
func (l *Logger) Close() error {
	l.Logger.Sync()

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.logFile.Close(); err != nil {
		return err
	}
	return os.Remove(l.filePath)
}

// Writer for the file core, shares the lock with the upload.
type lockedFile struct {
	l *Logger
}

func (w *lockedFile) Write(p []byte) (int, error) {
	w.l.mu.Lock()
	defer w.l.mu.Unlock()
	return w.l.logFile.Write(p)
}

func (w *lockedFile) Sync() error {
	w.l.mu.Lock()
	defer w.l.mu.Unlock()
	return w.l.logFile.Sync()
}
