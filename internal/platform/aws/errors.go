package aws

import (
	"errors"

	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/smithy-go"
)

// ErrNotFound is returned by Get operations when the resource is missing.
var ErrNotFound = errors.New("resource not found")

// IsNotFound reports whether the error means the resource does not exist.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var eksNotFound *ekstypes.ResourceNotFoundException
	if errors.As(err, &eksNotFound) {
		return true
	}
	var iamNotFound *iamtypes.NoSuchEntityException
	if errors.As(err, &iamNotFound) {
		return true
	}
	return hasErrorCode(err, "NotFoundException", "InvalidKeyPair.NotFound")
}

// IsAlreadyExists reports whether the error means the resource already
// exists. Ensure operations treat this as adoption, not failure.
func IsAlreadyExists(err error) bool {
	var exists *ekstypes.ResourceInUseException
	if errors.As(err, &exists) {
		return true
	}
	var iamExists *iamtypes.EntityAlreadyExistsException
	if errors.As(err, &iamExists) {
		return true
	}
	return hasErrorCode(err, "ResourceInUseException", "EntityAlreadyExists", "InvalidKeyPair.Duplicate")
}

// IsThrottled reports whether the error is a rate limit and worth retrying.
func IsThrottled(err error) bool {
	return hasErrorCode(err, "Throttling", "ThrottlingException", "TooManyRequestsException", "RequestLimitExceeded")
}

func hasErrorCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
