// Package dynamo provides the DynamoDB range-query operation driven by
// the benchmark.
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dynobench/dynobench/internal/benchmark"
	"github.com/dynobench/dynobench/internal/config"
)

// QueryAPI is the subset of the DynamoDB client consumed by
// RangeQuery, narrowed for testability.
type QueryAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// RangeQuery is a benchmark.Operation executing a fixed key-condition
// range query:
//
//	#partition = :pk AND #sort BETWEEN :start AND :end
//
// The query input is built once at construction and never mutated, so
// concurrent Invoke calls share it safely; the SDK client is safe for
// concurrent use.
type RangeQuery struct {
	client QueryAPI
	input  *dynamodb.QueryInput
}

// NewClient loads the default AWS credential chain and returns a
// DynamoDB client for the given region.
func NewClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg), nil
}

// NewRangeQuery builds the range-query operation from the
// configuration's table and key fields.
func NewRangeQuery(client QueryAPI, cfg *config.BenchmarkConfig) (*RangeQuery, error) {
	if err := cfg.ValidateQuery(); err != nil {
		return nil, err
	}

	keyCond := fmt.Sprintf("#%s = :pk AND #%s BETWEEN :start AND :end",
		cfg.PartitionKey, cfg.SortKey)

	input := &dynamodb.QueryInput{
		TableName:              aws.String(cfg.Table),
		KeyConditionExpression: aws.String(keyCond),
		ExpressionAttributeNames: map[string]string{
			"#" + cfg.PartitionKey: cfg.PartitionKey,
			"#" + cfg.SortKey:      cfg.SortKey,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":    &types.AttributeValueMemberS{Value: cfg.PartitionValue},
			":start": &types.AttributeValueMemberS{Value: cfg.SortStart},
			":end":   &types.AttributeValueMemberS{Value: cfg.SortEnd},
		},
	}

	return &RangeQuery{client: client, input: input}, nil
}

// Invoke executes the query once. The outcome key is the returned item
// count; the benchmark cares about timing, not item contents.
func (q *RangeQuery) Invoke(ctx context.Context) (benchmark.OutcomeKey, error) {
	out, err := q.client.Query(ctx, q.input)
	if err != nil {
		return "", fmt.Errorf("dynamodb query: %w", err)
	}
	return benchmark.ItemCountKey(int(out.Count)), nil
}

var _ benchmark.Operation = (*RangeQuery)(nil)
