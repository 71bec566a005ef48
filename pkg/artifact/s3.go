package artifact

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mrostecki/cluster-diagnosis/pkg/data"
)

// Uploader stores failure debug bundles somewhere an operator can inspect
// after the run. Implementations must never mutate the cluster.
type Uploader interface {
	Upload(ctx context.Context, bundle data.DebugBundle) error
}

// s3API is the subset of the S3 client the uploader needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader writes one text object per bundle under
// <prefix>/<timestamp>/<namespace>/<pod>.txt.
type S3Uploader struct {
	client s3API
	bucket string
	prefix string
	now    func() time.Time
}

func NewS3Uploader(ctx context.Context, bucket, prefix string) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Uploader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, bundle data.DebugBundle) error {
	key := path.Join(u.prefix, u.now().Format("20060102-150405"), bundle.Namespace, bundle.PodName+".txt")

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(render(bundle)),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload debug data for pod %s/%s to s3://%s/%s: %w",
			bundle.Namespace, bundle.PodName, u.bucket, key, err)
	}
	return nil
}

func render(bundle data.DebugBundle) string {
	var b strings.Builder
	b.WriteString(bundle.Describe)
	if len(bundle.Events) > 0 {
		b.WriteString("\nRecent warning events:\n")
		for _, event := range bundle.Events {
			fmt.Fprintf(&b, "%s %s %s x%d: %s\n",
				event.LastSeen.Format(time.RFC3339), event.Reason, event.Object, event.Count, event.Message)
		}
	}
	return b.String()
}
