package dynamodb

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	apperrors "orders-backend/pkg/errors"
)

// classify is the single seam where raw backend errors are converted into
// the closed taxonomy. It is total: every backend error maps to exactly one
// kind, with internal_failure as the catch-all that retains the cause.
func (r *OrderRepository) classify(err error, id string) error {
	var conditional *types.ConditionalCheckFailedException
	if errors.As(err, &conditional) {
		return apperrors.NewResourceExists(resourceName, id)
	}

	var throughput *types.ProvisionedThroughputExceededException
	if errors.As(err, &throughput) {
		return apperrors.NewThrottled(0)
	}

	var requestLimit *types.RequestLimitExceeded
	if errors.As(err, &requestLimit) {
		return apperrors.NewThrottled(0)
	}

	// Some throttling surfaces only as a coded API error, without a modelled
	// exception type.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ProvisionedThroughputExceededException", "RequestLimitExceeded":
			return apperrors.NewThrottled(0)
		case "ConditionalCheckFailedException":
			return apperrors.NewResourceExists(resourceName, id)
		}
	}

	return apperrors.NewInternalFailure("unexpected storage failure", err)
}

func apperror(message string, cause error) error {
	return apperrors.NewInternalFailure(message, cause)
}

func apperrNotFound(orderID string) error {
	return apperrors.NewResourceNotFound(resourceName, orderID)
}
