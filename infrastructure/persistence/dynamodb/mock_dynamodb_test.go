package dynamodb

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is a small in-memory stand-in for the DynamoDB client. It keeps
// items keyed by PK|SK, honors the not-exists condition, and serves
// descending queries with limits and continuation keys.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	putErr   error
	getErr   error
	queryErr error
	batchErr error

	// unprocessedRounds makes the first N batch calls report unprocessed
	// items. unprocessedCount bounds how many of each call's requests stay
	// unprocessed; zero means all of them.
	unprocessedRounds int
	unprocessedCount  int

	putInputs   []*awsdynamodb.PutItemInput
	batchSizes  []int
	batchKeys   [][]string
	writeCounts map[string]int
	queryInput  *awsdynamodb.QueryInput

	capacityUnits float64
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		items:         map[string]map[string]types.AttributeValue{},
		writeCounts:   map[string]int{},
		capacityUnits: 1,
	}
}

func itemKey(item map[string]types.AttributeValue) string {
	pk := item["PK"].(*types.AttributeValueMemberS).Value
	sk := item["SK"].(*types.AttributeValueMemberS).Value
	return pk + "|" + sk
}

func (f *fakeDynamo) consumed() *types.ConsumedCapacity {
	return &types.ConsumedCapacity{
		CapacityUnits:      aws.Float64(f.capacityUnits),
		ReadCapacityUnits:  aws.Float64(f.capacityUnits),
		WriteCapacityUnits: aws.Float64(f.capacityUnits),
	}
}

func (f *fakeDynamo) PutItem(_ context.Context, params *awsdynamodb.PutItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putInputs = append(f.putInputs, params)

	if f.putErr != nil {
		return nil, f.putErr
	}

	key := itemKey(params.Item)
	if params.ConditionExpression != nil {
		if _, exists := f.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.items[key] = params.Item
	return &awsdynamodb.PutItemOutput{ConsumedCapacity: f.consumed()}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, params *awsdynamodb.GetItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}

	key := itemKey(params.Key)
	out := &awsdynamodb.GetItemOutput{ConsumedCapacity: f.consumed()}
	if item, ok := f.items[key]; ok {
		out.Item = item
	}
	return out, nil
}

func (f *fakeDynamo) Query(_ context.Context, params *awsdynamodb.QueryInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryInput = params

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	// The expression builder assigns :0 to the partition key value and :1
	// to the sort key prefix.
	pk := params.ExpressionAttributeValues[":0"].(*types.AttributeValueMemberS).Value
	prefix := params.ExpressionAttributeValues[":1"].(*types.AttributeValueMemberS).Value

	type keyed struct {
		sk   string
		item map[string]types.AttributeValue
	}
	var matched []keyed
	for _, item := range f.items {
		itemPK := item["PK"].(*types.AttributeValueMemberS).Value
		itemSK := item["SK"].(*types.AttributeValueMemberS).Value
		if itemPK == pk && strings.HasPrefix(itemSK, prefix) {
			matched = append(matched, keyed{sk: itemSK, item: item})
		}
	}

	descending := params.ScanIndexForward != nil && !*params.ScanIndexForward
	sort.Slice(matched, func(i, j int) bool {
		if descending {
			return matched[i].sk > matched[j].sk
		}
		return matched[i].sk < matched[j].sk
	})

	if len(params.ExclusiveStartKey) > 0 {
		startSK := params.ExclusiveStartKey["SK"].(*types.AttributeValueMemberS).Value
		var after []keyed
		for _, k := range matched {
			if descending && k.sk < startSK {
				after = append(after, k)
			}
			if !descending && k.sk > startSK {
				after = append(after, k)
			}
		}
		matched = after
	}

	limit := len(matched)
	if params.Limit != nil && int(*params.Limit) < limit {
		limit = int(*params.Limit)
	}

	out := &awsdynamodb.QueryOutput{ConsumedCapacity: f.consumed()}
	for _, k := range matched[:limit] {
		out.Items = append(out.Items, k.item)
	}
	if limit < len(matched) {
		last := matched[limit-1].item
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"PK": last["PK"],
			"SK": last["SK"],
		}
	}
	return out, nil
}

func (f *fakeDynamo) BatchWriteItem(_ context.Context, params *awsdynamodb.BatchWriteItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.batchErr != nil {
		return nil, f.batchErr
	}

	var table string
	var requests []types.WriteRequest
	for name, reqs := range params.RequestItems {
		table = name
		requests = reqs
	}
	f.batchSizes = append(f.batchSizes, len(requests))

	keys := make([]string, 0, len(requests))
	for _, req := range requests {
		keys = append(keys, itemKey(req.PutRequest.Item))
	}
	f.batchKeys = append(f.batchKeys, keys)

	out := &awsdynamodb.BatchWriteItemOutput{
		ConsumedCapacity: []types.ConsumedCapacity{*f.consumed()},
	}

	applied := requests
	if f.unprocessedRounds > 0 {
		f.unprocessedRounds--
		unprocessed := len(requests)
		if f.unprocessedCount > 0 && f.unprocessedCount < unprocessed {
			unprocessed = f.unprocessedCount
		}
		applied = requests[unprocessed:]
		out.UnprocessedItems = map[string][]types.WriteRequest{
			table: requests[:unprocessed],
		}
	}

	for _, req := range applied {
		key := itemKey(req.PutRequest.Item)
		f.items[key] = req.PutRequest.Item
		f.writeCounts[key]++
	}
	return out, nil
}
