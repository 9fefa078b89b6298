package covstore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mappa-dev/mappa/internal/errors"
)

// S3 is a snapshot-style Store on top of an S3 object. Records live in
// memory; Load hydrates them from the object at startup and Flush
// writes them back. Because coverage merges are monotonic, the
// load-merge-flush cycle is safe even when several instances share the
// object: a flush can lose bits another instance set concurrently only
// until that instance's next flush re-asserts them.
//
// The caller supplies the client, exactly as with any other aws-sdk-v2
// integration:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := covstore.NewS3(s3.NewFromConfig(cfg), "my-bucket", "mappa/coverage.json")
//	_ = store.Load(ctx)
type S3 struct {
	client *s3.Client
	bucket string
	key    string

	mu      sync.Mutex
	records map[string]Record
	dirty   bool
}

// NewS3 creates an S3 snapshot store. Call Load before serving to pick
// up previously persisted coverage.
func NewS3(client *s3.Client, bucket, key string) *S3 {
	return &S3{
		client:  client,
		bucket:  bucket,
		key:     key,
		records: map[string]Record{},
	}
}

// Load merges the persisted snapshot into memory. A missing object is
// not an error; coverage starts empty.
func (s *S3) Load(ctx context.Context) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil
		}
		return errors.New(errors.CodeStoreIO).Wrap(err).
			WithMessagef("loading coverage snapshot s3://%s/%s", s.bucket, s.key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return errors.FromError(err, errors.CodeStoreIO)
	}
	var snap map[string]Record
	if err := json.Unmarshal(data, &snap); err != nil {
		return errors.New(errors.CodeStoreIO).Wrap(err).
			WithMessagef("decoding coverage snapshot s3://%s/%s", s.bucket, s.key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range snap {
		cur := s.records[id]
		cur.merge(rec)
		s.records[id] = cur
	}
	return nil
}

// Flush writes the in-memory records back to the object if anything
// changed since the last flush.
func (s *S3) Flush(ctx context.Context) error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	data, err := json.Marshal(s.records)
	s.dirty = false
	s.mu.Unlock()
	if err != nil {
		return errors.FromError(err, errors.CodeStoreIO)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.New(errors.CodeStoreIO).Wrap(err).
			WithMessagef("writing coverage snapshot s3://%s/%s", s.bucket, s.key)
	}
	return nil
}

// Get implements Store.
func (s *S3) Get(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[id], nil
}

// Mark implements Store.
func (s *S3) Mark(id string, accessed, rendered bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[id]
	if rec.merge(Record{Accessed: accessed, Rendered: rendered}) {
		s.records[id] = rec
		s.dirty = true
	}
	return nil
}

// All implements Store.
func (s *S3) All() (map[string]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[string]Record, len(s.records))
	for k, v := range s.records {
		cp[k] = v
	}
	return cp, nil
}

// Reset implements Store.
func (s *S3) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = map[string]Record{}
	s.dirty = true
	return nil
}

// Close implements Store. It flushes with a background context.
func (s *S3) Close() error {
	return s.Flush(context.Background())
}
