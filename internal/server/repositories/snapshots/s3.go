package snapshots

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/server/models"
)

// S3API is the subset of *s3.Client the repository uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Repository keeps each snapshot as one JSON object under
// "snapshots/<id>.json".
type S3Repository struct {
	client S3API
	bucket string
	now    func() time.Time
}

func NewS3Repository(client S3API, bucket string) *S3Repository {
	return &S3Repository{client: client, bucket: bucket, now: time.Now}
}

func objectKey(id string) string {
	return "snapshots/" + id + ".json"
}

func (r *S3Repository) Create(ctx context.Context, s *models.Snapshot) (*models.Snapshot, error) {
	out := *s
	out.ID = uuid.NewString()
	out.CreatedAt = r.now().UTC()

	body, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(objectKey(out.ID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		// Snapshots are write-once.
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 put: %w", err)
	}
	return &out, nil
}

func (r *S3Repository) Get(ctx context.Context, id string) (*models.Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	res, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey(id)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("s3 get: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read: %w", err)
	}
	var s models.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return &s, nil
}
