// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"fmt"
	"os"
	"os/user"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/credentials/ec2rolecreds"
	"github.com/aws/aws-sdk-go/aws/ec2metadata"
	"github.com/aws/aws-sdk-go/aws/session"
)

const AWSProfile = "tileworld"

// getAWSSession prefers the shared credentials file and falls back to the instance role.
func getAWSSession(region, profile string) (*session.Session, error) {
	if profile == "" {
		profile = AWSProfile
	}

	var creds *credentials.Credentials
	if usr, err := user.Current(); err == nil {
		path := fmt.Sprintf("%s/.aws/credentials", usr.HomeDir)
		if _, statErr := os.Stat(path); statErr == nil {
			creds = credentials.NewSharedCredentials(path, profile)
		}
	}
	if creds == nil {
		metadata, err := session.NewSession(aws.NewConfig())
		if err != nil {
			return nil, err
		}
		creds = credentials.NewCredentials(&ec2rolecreds.EC2RoleProvider{Client: ec2metadata.New(metadata)})
	}

	return session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: creds,
	})
}
