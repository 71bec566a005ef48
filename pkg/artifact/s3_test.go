package artifact

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mrostecki/cluster-diagnosis/pkg/data"
)

// MockS3API is a mock implementation of s3API
type MockS3API struct {
	mock.Mock
}

func (m *MockS3API) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func testUploader(client s3API) *S3Uploader {
	return &S3Uploader{
		client: client,
		bucket: "debug-bucket",
		prefix: "cluster-diagnosis",
		now: func() time.Time {
			return time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
		},
	}
}

func TestUpload(t *testing.T) {
	mockClient := &MockS3API{}
	var captured *s3.PutObjectInput
	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		captured = in
		return true
	})).Return(&s3.PutObjectOutput{}, nil)

	bundle := data.DebugBundle{
		PodName:   "agent-1",
		Namespace: "kube-system",
		Describe:  "Name:      agent-1\nPhase:     Pending\n",
		Events: []data.EventInfo{
			{
				LastSeen: time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC),
				Reason:   "BackOff",
				Object:   "pod/agent-1",
				Message:  "Back-off restarting failed container",
				Count:    7,
			},
		},
	}

	err := testUploader(mockClient).Upload(context.Background(), bundle)

	require.NoError(t, err)
	mockClient.AssertNumberOfCalls(t, "PutObject", 1)
	require.NotNil(t, captured)
	assert.Equal(t, "debug-bucket", *captured.Bucket)
	assert.Equal(t, "cluster-diagnosis/20240102-150405/kube-system/agent-1.txt", *captured.Key)

	body, err := io.ReadAll(captured.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Phase:     Pending")
	assert.Contains(t, string(body), "Recent warning events:")
	assert.Contains(t, string(body), "BackOff pod/agent-1 x7")
}

func TestUploadError(t *testing.T) {
	mockClient := &MockS3API{}
	mockClient.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	bundle := data.DebugBundle{PodName: "agent-1", Namespace: "kube-system"}

	err := testUploader(mockClient).Upload(context.Background(), bundle)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Contains(t, err.Error(), "s3://debug-bucket/")
}
