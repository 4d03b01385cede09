package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is the number of object bodies kept for conditional
// reads.
const DefaultCacheSize = 1000

// S3Interface is the subset of the S3 API a Persist needs. *s3.S3
// satisfies it.
type S3Interface interface {
	DeleteObjectWithContext(ctx aws.Context, input *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error)
	DeleteObjectsWithContext(ctx aws.Context, input *s3.DeleteObjectsInput, opts ...request.Option) (*s3.DeleteObjectsOutput, error)
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
	ListObjectsV2PagesWithContext(ctx aws.Context, input *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, opts ...request.Option) error
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

type cached struct {
	etag string
	body []byte
}

// Persist implements the localstore.Persist interface for storing and
// loading entries as objects under a common prefix in a bucket.
type Persist struct {
	s3         S3Interface
	BucketName string
	Prefix     string
	cache      *lru.Cache
}

func (p *Persist) key(name string) *string {
	return aws.String(p.Prefix + name)
}

// Load loads the bytes persisted in the named object. Objects read before
// are fetched conditionally on their ETag, and an unchanged object is
// served from memory. A missing object yields an error matching
// fs.ErrNotExist.
func (p *Persist) Load(ctx context.Context, name string) ([]byte, error) {
	input := s3.GetObjectInput{
		Bucket: &p.BucketName,
		Key:    p.key(name),
	}
	var prior *cached
	if v, ok := p.cache.Get(name); ok {
		prior = v.(*cached)
		input.IfNoneMatch = aws.String(prior.etag)
	}
	output, err := p.s3.GetObjectWithContext(ctx, &input)
	if err != nil {
		if prior != nil && notModified(err) {
			return bytes.Clone(prior.body), nil
		}
		p.cache.Remove(name)
		if notFound(err) {
			return nil, fmt.Errorf("s3://%s/%s: %w", p.BucketName, *input.Key, fs.ErrNotExist)
		}
		return nil, err
	}
	defer output.Body.Close()
	b, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, err
	}
	if etag := aws.StringValue(output.ETag); etag != "" {
		p.cache.Add(name, &cached{etag: etag, body: bytes.Clone(b)})
	}
	return b, nil
}

// Store persists the given bytes in the named object, replacing any
// previous contents.
func (p *Persist) Store(ctx context.Context, name string, b []byte) error {
	p.cache.Remove(name)
	input := s3.PutObjectInput{
		Bucket: &p.BucketName,
		Key:    p.key(name),
		Body:   bytes.NewReader(b),
	}
	_, err := p.s3.PutObjectWithContext(ctx, &input)
	return err
}

// Delete removes the named object. Deleting an absent object succeeds.
func (p *Persist) Delete(ctx context.Context, name string) error {
	p.cache.Remove(name)
	_, err := p.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: &p.BucketName,
		Key:    p.key(name),
	})
	if err != nil && notFound(err) {
		return nil
	}
	return err
}

// Keys lists the names of all objects under the prefix.
func (p *Persist) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	input := s3.ListObjectsV2Input{
		Bucket: &p.BucketName,
		Prefix: aws.String(p.Prefix),
	}
	err := p.s3.ListObjectsV2PagesWithContext(ctx, &input, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, o := range page.Contents {
			keys = append(keys, strings.TrimPrefix(aws.StringValue(o.Key), p.Prefix))
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Clear removes every object under the prefix, in batches of the most
// S3 accepts in one request.
func (p *Persist) Clear(ctx context.Context) error {
	keys, err := p.Keys(ctx)
	if err != nil {
		return err
	}
	p.cache.Purge()
	const batch = 1000
	for len(keys) > 0 {
		n := min(batch, len(keys))
		ids := make([]*s3.ObjectIdentifier, n)
		for i, k := range keys[:n] {
			ids[i] = &s3.ObjectIdentifier{Key: p.key(k)}
		}
		out, err := p.s3.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: &p.BucketName,
			Delete: &s3.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return err
		}
		if len(out.Errors) > 0 {
			e := out.Errors[0]
			return fmt.Errorf("delete %s: %s", aws.StringValue(e.Key), aws.StringValue(e.Message))
		}
		keys = keys[n:]
	}
	return nil
}

func notFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}

func notModified(err error) bool {
	var rf awserr.RequestFailure
	return errors.As(err, &rf) && rf.StatusCode() == http.StatusNotModified
}

// NewPersist returns a Persist that loads and stores entries as
// objects with the given S3 client and bucket name. Object keys are the
// entry names with prefix prepended.
func NewPersist(client S3Interface, bucketName, prefix string) *Persist {
	return NewPersistWithCacheSize(client, bucketName, prefix, DefaultCacheSize)
}

// NewPersistWithCacheSize is like NewPersist but remembers up to size
// object bodies for conditional reads.
func NewPersistWithCacheSize(client S3Interface, bucketName, prefix string, size int) *Persist {
	cache, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return &Persist{client, bucketName, prefix, cache}
}
