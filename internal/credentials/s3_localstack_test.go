//go:build integration && localstack
// +build integration,localstack

package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/joshsymonds/lexcura/internal/config"
)

// TestLoader_S3LocalStack reads a key object from a LocalStack bucket.
// Requires Docker.
func TestLoader_S3LocalStack(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "localstack/localstack:latest",
			ExposedPorts: []string{"4566/tcp"},
			Env: map[string]string{
				"SERVICES":       "s3",
				"DEFAULT_REGION": "us-east-1",
			},
			WaitingFor: wait.ForHTTP("/_localstack/health").WithPort("4566/tcp").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminating localstack: %v", err)
		}
	}()

	endpoint, err := container.Endpoint(ctx, "4566/tcp")
	require.NoError(t, err)
	localstackURL := fmt.Sprintf("http://%s", endpoint)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider("test", "test", "")),
	)
	require.NoError(t, err)

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(localstackURL)
		o.UsePathStyle = true
	})

	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String("lexcura-secrets")})
	require.NoError(t, err)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String("lexcura-secrets"),
		Key:    aws.String("gcp/sa.json"),
		Body:   strings.NewReader(validKey),
	})
	require.NoError(t, err)

	loader := NewLoader(config.CredentialsConfig{S3URI: "s3://lexcura-secrets/gcp/sa.json"}, WithS3Client(client))
	data, err := loader.Load(ctx)
	require.NoError(t, err)

	var sa ServiceAccount
	require.NoError(t, json.Unmarshal(data, &sa))
	assert.Equal(t, "lexcura", sa.ProjectID)

	missing := NewLoader(config.CredentialsConfig{S3URI: "s3://lexcura-secrets/absent.json"}, WithS3Client(client))
	_, err = missing.Load(ctx)
	assert.ErrorIs(t, err, ErrCredentialsUnavailable)
}
