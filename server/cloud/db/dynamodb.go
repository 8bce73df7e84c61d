// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"context"
	"errors"
	"sort"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/guregu/dynamo"
)

type DynamoDBDatabase struct {
	svc        *dynamodb.DynamoDB
	db         *dynamo.DB
	savesTable dynamo.Table
}

func NewDynamoDBDatabase(session *session.Session, table string) (*DynamoDBDatabase, error) {
	if table == "" {
		return nil, errors.New("empty dynamodb table")
	}
	ddb := &DynamoDBDatabase{svc: dynamodb.New(session)}
	ddb.db = dynamo.NewFromIface(ddb.svc)
	ddb.savesTable = ddb.db.Table(table)
	return ddb, nil
}

func (ddb *DynamoDBDatabase) UpdateSave(ctx context.Context, save Save) error {
	err := ddb.savesTable.Put(save).If("attribute_not_exists(savedAt) OR savedAt < ?", save.SavedAt).RunWithContext(ctx)
	if err != nil {
		var conditionErr *dynamodb.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return nil
		}
	}
	return err
}

func (ddb *DynamoDBDatabase) ReadSaves(ctx context.Context) (saves []Save, err error) {
	query := ddb.savesTable.Scan().Iter()

	for {
		var save Save
		ok := query.NextWithContext(ctx, &save)
		if !ok {
			err = query.Err()
			break
		}
		saves = append(saves, save)
	}

	sortSaves(saves)
	return
}

func (ddb *DynamoDBDatabase) DeleteSave(ctx context.Context, key string) error {
	return ddb.savesTable.Delete("key", key).RunWithContext(ctx)
}

func sortSaves(saves []Save) {
	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Key < saves[j].Key
	})
}
