package aws

import (
	"errors"
	"fmt"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("cluster x: %w", ErrNotFound)))
	assert.True(t, IsNotFound(&ekstypes.ResourceNotFoundException{Message: awssdk.String("gone")}))
	assert.True(t, IsNotFound(&iamtypes.NoSuchEntityException{Message: awssdk.String("gone")}))
	assert.True(t, IsNotFound(&smithy.GenericAPIError{Code: "InvalidKeyPair.NotFound"}))

	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.False(t, IsNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
}

func TestIsAlreadyExists(t *testing.T) {
	assert.True(t, IsAlreadyExists(&ekstypes.ResourceInUseException{Message: awssdk.String("in use")}))
	assert.True(t, IsAlreadyExists(&iamtypes.EntityAlreadyExistsException{Message: awssdk.String("exists")}))
	assert.True(t, IsAlreadyExists(&smithy.GenericAPIError{Code: "InvalidKeyPair.Duplicate"}))

	assert.False(t, IsAlreadyExists(nil))
	assert.False(t, IsAlreadyExists(ErrNotFound))
}

func TestIsThrottled(t *testing.T) {
	assert.True(t, IsThrottled(&smithy.GenericAPIError{Code: "Throttling"}))
	assert.True(t, IsThrottled(&smithy.GenericAPIError{Code: "TooManyRequestsException"}))
	assert.False(t, IsThrottled(&smithy.GenericAPIError{Code: "ValidationError"}))
	assert.False(t, IsThrottled(nil))
}

func TestLoggingFor(t *testing.T) {
	logging := loggingFor([]string{"api", "audit"})
	// One enabled block, one disabled block covering the remainder.
	assert.Len(t, logging.ClusterLogging, 2)
	assert.Equal(t, []string{"api", "audit"}, enabledLogTypes(logging))

	all := loggingFor([]string{"api", "audit", "authenticator", "controllerManager", "scheduler"})
	assert.Len(t, all.ClusterLogging, 1)

	none := loggingFor(nil)
	assert.Len(t, none.ClusterLogging, 1)
	assert.Empty(t, enabledLogTypes(none))
}
