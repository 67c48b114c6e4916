package dynamodb

import (
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	apperrors "orders-backend/pkg/errors"
)

// cursorKey is the serialized form of a query continuation point. Both key
// attributes are strings, so the opaque token only needs the two values.
type cursorKey struct {
	PK string `json:"pk"`
	SK string `json:"sk"`
}

// encodeCursor turns a LastEvaluatedKey into an opaque continuation token.
// An absent key means the scan is exhausted and yields an empty token.
func encodeCursor(lastKey map[string]types.AttributeValue) string {
	if len(lastKey) == 0 {
		return ""
	}
	key := cursorKey{}
	if pk, ok := lastKey["PK"].(*types.AttributeValueMemberS); ok {
		key.PK = pk.Value
	}
	if sk, ok := lastKey["SK"].(*types.AttributeValueMemberS); ok {
		key.SK = sk.Value
	}
	raw, err := json.Marshal(key)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeCursor turns a continuation token back into an ExclusiveStartKey.
// The token must name the partition being scanned; anything else is a token
// the service did not mint for this customer, a client mistake reported as
// resource_invalid before it reaches the backend.
func decodeCursor(cursor, partitionKey string) (map[string]types.AttributeValue, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, invalidCursor()
	}
	var key cursorKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, invalidCursor()
	}
	if key.PK != partitionKey || key.SK == "" {
		return nil, invalidCursor()
	}
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: key.PK},
		"SK": &types.AttributeValueMemberS{Value: key.SK},
	}, nil
}

func invalidCursor() error {
	return apperrors.NewResourceInvalid(nil, map[string][]string{
		"cursor": {"is not a valid continuation token"},
	})
}
