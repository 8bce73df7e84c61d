// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Filesystem keeps blobs as objects under a prefix of a bucket.
type S3Filesystem struct {
	svc    *s3.S3
	bucket string
	prefix string
}

func NewS3Filesystem(session *session.Session, bucket, prefix string) (*S3Filesystem, error) {
	if bucket == "" {
		return nil, errors.New("empty s3 bucket")
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Filesystem{svc: s3.New(session), bucket: bucket, prefix: prefix}, nil
}

func (s3Filesystem *S3Filesystem) objectKey(key string) (*string, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	return aws.String(s3Filesystem.prefix + key), nil
}

func (s3Filesystem *S3Filesystem) Save(ctx context.Context, key string, data []byte) error {
	objectKey, err := s3Filesystem.objectKey(key)
	if err != nil {
		return err
	}

	_, err = s3Filesystem.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s3Filesystem.bucket),
		Key:          objectKey,
		Body:         bytes.NewReader(data),
		CacheControl: aws.String("no-cache"),
		ContentType:  aws.String("application/zstd"),
	})
	return err
}

func (s3Filesystem *S3Filesystem) Load(ctx context.Context, key string) ([]byte, error) {
	objectKey, err := s3Filesystem.objectKey(key)
	if err != nil {
		return nil, err
	}

	out, err := s3Filesystem.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s3Filesystem.bucket),
		Key:    objectKey,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (s3Filesystem *S3Filesystem) Has(ctx context.Context, key string) (bool, error) {
	objectKey, err := s3Filesystem.objectKey(key)
	if err != nil {
		return false, err
	}

	_, err = s3Filesystem.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s3Filesystem.bucket),
		Key:    objectKey,
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s3Filesystem *S3Filesystem) Clear(ctx context.Context, key string) error {
	objectKey, err := s3Filesystem.objectKey(key)
	if err != nil {
		return err
	}

	// Deleting a missing object succeeds
	_, err = s3Filesystem.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s3Filesystem.bucket),
		Key:    objectKey,
	})
	return err
}

func (s3Filesystem *S3Filesystem) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := s3Filesystem.svc.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s3Filesystem.bucket),
		Prefix: aws.String(s3Filesystem.prefix),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, object := range page.Contents {
			keys = append(keys, strings.TrimPrefix(aws.StringValue(object.Key), s3Filesystem.prefix))
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// HeadObject reports a bare 404 rather than NoSuchKey.
func isNotFound(err error) bool {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return true
	}
	var awsErr awserr.Error
	return errors.As(err, &awsErr) && awsErr.Code() == s3.ErrCodeNoSuchKey
}
