// Package watcher polls an S3 drop folder for concierge report exports and
// feeds each new file through the ingestion pipeline. Concierges drop raw
// CSVs into the bucket; processed files are renamed out of the way so a
// rerun never double-ingests.
package watcher

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/concierge-reports/internal/domain"
	"github.com/ignite/concierge-reports/internal/pkg/distlock"
	"github.com/ignite/concierge-reports/internal/pkg/logger"
	"github.com/ignite/concierge-reports/internal/service/ingest"
)

// Ingestor is the slice of the ingest service the watcher needs.
type Ingestor interface {
	Ingest(ctx context.Context, data []byte, family domain.ReportFamily, meta ingest.Metadata) *domain.UploadBatch
}

// Config holds the S3 drop-folder settings.
type Config struct {
	Bucket     string
	Region     string
	Prefix     string
	AWSProfile string
	OrgID      string
	Interval   time.Duration

	// Lock serializes scan cycles across replicas. Optional; without it
	// only in-process overlap is prevented.
	Lock distlock.Lock
}

// Watcher periodically scans the drop folder and ingests each new CSV.
type Watcher struct {
	s3Client  *s3.Client
	ingestor  Ingestor
	bucket    string
	prefix    string
	orgID     string
	interval  time.Duration
	lock      distlock.Lock
	ctx       context.Context
	cancel    context.CancelFunc
	lastRunAt time.Time
	running   int32
}

func New(ingestor Ingestor, cfg Config) (*Watcher, error) {
	ctx := context.Background()

	var awsCfg aws.Config
	var err error
	if cfg.AWSProfile != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithSharedConfigProfile(cfg.AWSProfile),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Watcher{
		s3Client: s3.NewFromConfig(awsCfg),
		ingestor: ingestor,
		bucket:   cfg.Bucket,
		prefix:   strings.TrimPrefix(cfg.Prefix, "/"),
		orgID:    cfg.OrgID,
		interval: interval,
		lock:     cfg.Lock,
	}, nil
}

func (w *Watcher) Start() {
	w.ctx, w.cancel = context.WithCancel(context.Background())
	go func() {
		w.runOnce()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runOnce()
			}
		}
	}()
}

func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
}

func (w *Watcher) IsRunning() bool      { return atomic.LoadInt32(&w.running) == 1 }
func (w *Watcher) LastRunAt() time.Time { return w.lastRunAt }

// runOnce executes one scan cycle. Overlapping cycles are skipped.
func (w *Watcher) runOnce() {
	if !atomic.CompareAndSwapInt32(&w.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&w.running, 0)

	w.lastRunAt = time.Now()
	ctx := w.ctx

	if w.lock != nil {
		ok, err := w.lock.Acquire(ctx)
		if err != nil {
			logger.Error("drop folder lock failed", "bucket", w.bucket, "error", err.Error())
			return
		}
		if !ok {
			return
		}
		defer w.lock.Release(ctx)
	}

	keys, err := w.discover(ctx)
	if err != nil {
		logger.Error("drop folder scan failed", "bucket", w.bucket, "error", err.Error())
		return
	}
	for _, key := range keys {
		if ctx.Err() != nil {
			return
		}
		w.processFile(ctx, key)
	}
}

// discover lists CSV keys under the configured prefix, skipping files the
// watcher has already moved aside.
func (w *Watcher) discover(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(w.bucket)}
	if w.prefix != "" {
		input.Prefix = aws.String(w.prefix)
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(w.s3Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			rel := strings.TrimPrefix(key, w.prefix)
			rel = strings.TrimPrefix(rel, "/")
			if strings.HasPrefix(rel, "processed/") || strings.HasPrefix(rel, "failed/") {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(key), ".csv") {
				continue
			}
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// processFile downloads one object, runs it through the pipeline with format
// auto-detection, and moves it under processed/ or failed/ based on the
// batch outcome.
func (w *Watcher) processFile(ctx context.Context, key string) {
	out, err := w.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Error("download report failed", "key", key, "error", err.Error())
		return
	}
	data, err := io.ReadAll(out.Body)
	out.Body.Close()
	if err != nil {
		logger.Error("read report body failed", "key", key, "error", err.Error())
		return
	}

	batch := w.ingestor.Ingest(ctx, data, domain.FamilyAuto, ingest.Metadata{
		FileName:   path.Base(key),
		UploadedBy: "s3-watcher",
		OrgID:      w.orgID,
	})

	dest := "processed"
	if !batch.Success {
		dest = "failed"
		logger.Warn("drop folder ingest failed",
			"key", key, "batch_id", batch.BatchID, "message", batch.Message)
	} else {
		logger.Info("drop folder ingest complete",
			"key", key, "batch_id", batch.BatchID,
			"family", string(batch.Family), "rows", batch.RowsSucceeded)
	}

	if err := w.moveObject(ctx, key, dest, batch); err != nil {
		logger.Error("move processed report failed", "key", key, "error", err.Error())
	}
}

// moveObject renames the source object under <prefix>/<dest>/, tagging the
// new key with the detected family and batch id.
func (w *Watcher) moveObject(ctx context.Context, key, dest string, batch *domain.UploadBatch) error {
	base := strings.TrimSuffix(path.Base(key), path.Ext(key))
	newKey := fmt.Sprintf("%s/%s-%s-%s.csv", dest, base, batch.Family, batch.BatchID)
	if w.prefix != "" {
		newKey = path.Join(w.prefix, newKey)
	}

	_, err := w.s3Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(w.bucket),
		CopySource: aws.String(url.PathEscape(w.bucket + "/" + key)),
		Key:        aws.String(newKey),
	})
	if err != nil {
		return fmt.Errorf("copy to %s: %w", newKey, err)
	}

	_, err = w.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete original %s: %w", key, err)
	}
	return nil
}
