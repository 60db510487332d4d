package cloud

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	xraytypes "github.com/aws/aws-sdk-go-v2/service/xray/types"
	"github.com/stretchr/testify/assert"
)

func TestTelemetryNotFound(t *testing.T) {
	nf := &xraytypes.InvalidRequestException{Message: aws.String("Group not found")}
	assert.True(t, telemetryNotFound(nf))

	// Recognized through wrapping, the way SDK operation errors arrive
	assert.True(t, telemetryNotFound(fmt.Errorf("get group: %w", nf)))

	// Auth and throttle errors must not be mistaken for not-found
	assert.False(t, telemetryNotFound(&xraytypes.ThrottledException{}))
	assert.False(t, telemetryNotFound(errors.New("AccessDenied: not authorized")))
	assert.False(t, telemetryNotFound(nil))
}
