package dynamo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/dynobench/dynobench/internal/benchmark"
	"github.com/dynobench/dynobench/internal/config"
)

type fakeQueryAPI struct {
	count    int32
	err      error
	captured *dynamodb.QueryInput
}

func (f *fakeQueryAPI) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.captured = params
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.QueryOutput{Count: f.count}, nil
}

func queryConfig() *config.BenchmarkConfig {
	return &config.BenchmarkConfig{
		Table:          "orders",
		PartitionKey:   "customer_id",
		SortKey:        "order_ts",
		PartitionValue: "cust-1042",
		SortStart:      "2026-01-01",
		SortEnd:        "2026-02-01",
	}
}

func TestNewRangeQuery_RejectsIncompleteConfig(t *testing.T) {
	cfg := queryConfig()
	cfg.Table = ""
	if _, err := NewRangeQuery(&fakeQueryAPI{}, cfg); err == nil {
		t.Error("NewRangeQuery() without table should fail")
	}
}

func TestRangeQuery_BuildsKeyCondition(t *testing.T) {
	client := &fakeQueryAPI{count: 3}
	q, err := NewRangeQuery(client, queryConfig())
	if err != nil {
		t.Fatalf("NewRangeQuery() error = %v", err)
	}

	if _, err := q.Invoke(context.Background()); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	in := client.captured
	if got := aws.ToString(in.TableName); got != "orders" {
		t.Errorf("TableName = %q, want orders", got)
	}
	wantCond := "#customer_id = :pk AND #order_ts BETWEEN :start AND :end"
	if got := aws.ToString(in.KeyConditionExpression); got != wantCond {
		t.Errorf("KeyConditionExpression = %q, want %q", got, wantCond)
	}
	if in.ExpressionAttributeNames["#customer_id"] != "customer_id" {
		t.Errorf("attribute names = %v", in.ExpressionAttributeNames)
	}
	if len(in.ExpressionAttributeValues) != 3 {
		t.Errorf("attribute values = %v, want :pk/:start/:end", in.ExpressionAttributeValues)
	}
}

func TestRangeQuery_OutcomeIsItemCount(t *testing.T) {
	q, err := NewRangeQuery(&fakeQueryAPI{count: 7}, queryConfig())
	if err != nil {
		t.Fatalf("NewRangeQuery() error = %v", err)
	}

	key, err := q.Invoke(context.Background())
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if key != benchmark.ItemCountKey(7) {
		t.Errorf("Invoke() key = %q, want %q", key, benchmark.ItemCountKey(7))
	}
}

func TestRangeQuery_WrapsErrors(t *testing.T) {
	cause := errors.New("ProvisionedThroughputExceededException")
	q, err := NewRangeQuery(&fakeQueryAPI{err: cause}, queryConfig())
	if err != nil {
		t.Fatalf("NewRangeQuery() error = %v", err)
	}

	_, err = q.Invoke(context.Background())
	if err == nil {
		t.Fatal("Invoke() = nil, want error")
	}
	if !errors.Is(err, cause) {
		t.Errorf("Invoke() error = %v, want wrapped %v", err, cause)
	}
	if !strings.Contains(err.Error(), "dynamodb query") {
		t.Errorf("Invoke() error = %v, want dynamodb query context", err)
	}
}
