// Package s3test provides an S3 client for tests, backed by an in-process
// fake unless HARVESTKIT_TEST_S3_ENDPOINT names a real endpoint.
package s3test

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"net/http/httptest"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
)

const EndpointEnv = "HARVESTKIT_TEST_S3_ENDPOINT"

// Client returns a client, the name of a freshly created bucket, and a
// function that releases both.
func Client() (*s3.S3, string, func()) {
	var config *aws.Config
	closer := func() {}
	if endpoint := os.Getenv(EndpointEnv); endpoint != "" {
		config = &aws.Config{
			Credentials: credentials.NewStaticCredentials(
				getEnv("AWS_ACCESS_KEY_ID"),
				getEnv("AWS_SECRET_ACCESS_KEY"),
				getEnvOrDefault("AWS_SESSION_TOKEN", ""),
			),
			Endpoint: aws.String(endpoint),
			Region:   aws.String(getEnvOrDefault("AWS_DEFAULT_REGION", "us-east-1")),
		}
	} else {
		ts := httptest.NewServer(gofakes3.New(s3mem.New()).Server())
		closer = ts.Close
		config = &aws.Config{
			Credentials: credentials.NewStaticCredentials(
				"TEST-ACCESSKEYID",
				"TEST-SECRETACCESSKEY",
				"",
			),
			Endpoint:   aws.String(ts.URL),
			Region:     aws.String("ap-south-1"),
			DisableSSL: aws.Bool(true),
		}
	}
	config.S3ForcePathStyle = aws.Bool(true)
	sess, err := session.NewSession(config)
	if err != nil {
		panic(err)
	}
	client := s3.New(sess)

	bucketName := randBucketName()
	_, err = client.CreateBucket(&s3.CreateBucketInput{
		Bucket: &bucketName,
	})
	if err != nil {
		closer()
		panic(err)
	}
	release := closer
	closer = func() {
		emptyBucket(client, bucketName)
		client.DeleteBucket(&s3.DeleteBucketInput{Bucket: &bucketName})
		release()
	}
	return client, bucketName, closer
}

func emptyBucket(client *s3.S3, bucketName string) {
	client.ListObjectsV2Pages(&s3.ListObjectsV2Input{Bucket: &bucketName},
		func(page *s3.ListObjectsV2Output, _ bool) bool {
			for _, o := range page.Contents {
				client.DeleteObject(&s3.DeleteObjectInput{Bucket: &bucketName, Key: o.Key})
			}
			return true
		})
}

func getEnv(key string) string {
	res := os.Getenv(key)
	if res == "" {
		panic(fmt.Sprintf("environment '%s' unset", key))
	}
	return res
}

func getEnvOrDefault(key, def string) string {
	res := os.Getenv(key)
	if res == "" {
		return def
	}
	return res
}

func randBucketName() string {
	i, err := rand.Int(rand.Reader, big.NewInt(math.MaxUint32))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("harvestkit-%s", i)
}
