// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/SoftbearStudios/tileworld/server/cloud/db"
	"github.com/SoftbearStudios/tileworld/server/cloud/fs"
)

// Storage kinds
const (
	Memory = "memory"
	Local  = "local"
	SQLite = "sqlite"
	S3     = "s3"
)

var ErrKind = errors.New("unknown storage kind")

// Options select and configure a storage backend.
type Options struct {
	Kind string `yaml:"kind"`

	// Local and sqlite
	Dir string `yaml:"dir"`

	// S3 and DynamoDB
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix"`
	Table   string `yaml:"table"` // optional save index
}

func DefaultOptions() Options {
	return Options{Kind: Local, Dir: "saves"}
}

func (o Options) Validate() error {
	switch o.Kind {
	case Memory:
	case Local, SQLite:
		if o.Dir == "" {
			return fmt.Errorf("%s storage requires a dir", o.Kind)
		}
	case S3:
		if o.Region == "" || o.Bucket == "" {
			return errors.New("s3 storage requires a region and bucket")
		}
	default:
		return fmt.Errorf("%w: %q", ErrKind, o.Kind)
	}
	return nil
}

// A nil cloud is valid to use with String and Close.
type Cloud struct {
	kind     string
	location string
	fs       fs.Filesystem
	database db.Database // may be nil
}

func (cloud *Cloud) String() string {
	var builder strings.Builder
	builder.WriteByte('[')
	if cloud == nil {
		builder.WriteString("offline")
	} else {
		builder.WriteString(cloud.kind)
		if cloud.location != "" {
			builder.WriteByte(' ')
			builder.WriteString(cloud.location)
		}
		if cloud.database != nil {
			builder.WriteString(" indexed")
		}
	}
	builder.WriteByte(']')
	return builder.String()
}

// New opens the backend described by options.
func New(options Options) (*Cloud, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	cloud := &Cloud{kind: options.Kind}
	var err error

	switch options.Kind {
	case Memory:
		cloud.fs = fs.NewMemoryFilesystem()
		cloud.database = db.NewMemoryDatabase()
	case Local:
		cloud.location = options.Dir
		cloud.fs, err = fs.NewLocalFilesystem(options.Dir)
	case SQLite:
		cloud.location = filepath.Join(options.Dir, "saves.db")
		cloud.fs, err = fs.NewSQLiteFilesystem(cloud.location)
	case S3:
		cloud.location = "s3://" + options.Bucket + "/" + options.Prefix
		session, sessionErr := getAWSSession(options.Region, options.Profile)
		if sessionErr != nil {
			return nil, sessionErr
		}
		cloud.fs, err = fs.NewS3Filesystem(session, options.Bucket, options.Prefix)
		if err == nil && options.Table != "" {
			cloud.database, err = db.NewDynamoDBDatabase(session, options.Table)
		}
	}
	if err != nil {
		return nil, err
	}

	return cloud, nil
}

func (cloud *Cloud) Filesystem() fs.Filesystem {
	return cloud.fs
}

// Database returns the save index, or nil if the backend has none.
func (cloud *Cloud) Database() db.Database {
	return cloud.database
}

func (cloud *Cloud) Close() error {
	if cloud == nil {
		return nil
	}
	if closer, ok := cloud.fs.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
