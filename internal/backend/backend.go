// Package backend opens a localstore.Persist from a data source name.
//
// Supported forms:
//
//	mem:
//	file:/path/to/dir
//	bolt:/path/to/prefs.db
//	sqlite:/path/to/prefs.sqlite
//	s3://bucket/optional/prefix/?region=ap-south-1&endpoint=http://localhost:9000
package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/agripreserve/harvestkit/localstore"
	"github.com/agripreserve/harvestkit/persist/bolt"
	"github.com/agripreserve/harvestkit/persist/file"
	s3Persist "github.com/agripreserve/harvestkit/persist/s3"
	"github.com/agripreserve/harvestkit/persist/sqlite"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"
)

// Open returns the Persist named by dsn and a function releasing it.
func Open(ctx context.Context, dsn string, log *zap.Logger) (localstore.Persist, func() error, error) {
	if log == nil {
		log = zap.NewNop()
	}
	noop := func() error { return nil }
	scheme, rest, ok := strings.Cut(dsn, ":")
	if !ok {
		return nil, nil, fmt.Errorf("store %q: missing scheme", dsn)
	}
	log.Debug("opening store", zap.String("scheme", scheme), zap.String("location", rest))
	switch scheme {
	case "mem":
		return localstore.NewInMemoryStore(), noop, nil
	case "file":
		p, err := file.NewPersistForPath(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("store %q: %w", dsn, err)
		}
		return p, noop, nil
	case "bolt":
		p, err := bolt.Open(rest, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("store %q: %w", dsn, err)
		}
		return p, p.Close, nil
	case "sqlite":
		p, err := sqlite.Open(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("store %q: %w", dsn, err)
		}
		return p, p.Close, nil
	case "s3":
		loc, err := ParseS3(dsn)
		if err != nil {
			return nil, nil, err
		}
		sess, err := session.NewSessionWithOptions(session.Options{
			Config:            loc.Config,
			SharedConfigState: session.SharedConfigEnable,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("store %q: aws session: %w", dsn, err)
		}
		return s3Persist.NewPersist(s3.New(sess), loc.Bucket, loc.Prefix), noop, nil
	}
	return nil, nil, fmt.Errorf("store %q: unknown scheme %q", dsn, scheme)
}

// S3Location is a parsed s3:// data source name.
type S3Location struct {
	Bucket string
	Prefix string
	Config aws.Config
}

// ParseS3 splits an s3:// DSN into bucket, key prefix and client
// settings. An explicit endpoint implies path-style addressing.
func ParseS3(dsn string) (S3Location, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return S3Location{}, fmt.Errorf("store %q: %w", dsn, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return S3Location{}, fmt.Errorf("store %q: want s3://bucket[/prefix]", dsn)
	}
	loc := S3Location{
		Bucket: u.Host,
		Prefix: strings.TrimPrefix(u.Path, "/"),
	}
	q := u.Query()
	if r := q.Get("region"); r != "" {
		loc.Config.Region = aws.String(r)
	}
	if e := q.Get("endpoint"); e != "" {
		loc.Config.Endpoint = aws.String(e)
		loc.Config.S3ForcePathStyle = aws.Bool(true)
		if strings.HasPrefix(e, "http://") {
			loc.Config.DisableSSL = aws.Bool(true)
		}
	}
	return loc, nil
}
