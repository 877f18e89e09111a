package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil
}

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestUpload(t *testing.T) {
	path := writeTemp(t, "Case_ID\n1\n")
	client := &fakeS3{}
	p, err := NewWithClient(client, Config{Bucket: "datasets", Prefix: "hiv/"})
	require.NoError(t, err)

	res, err := p.Upload(context.Background(), path, "text/csv")
	require.NoError(t, err)

	assert.Equal(t, Result{Bucket: "datasets", Key: "hiv/data.csv", Size: 10, ETag: "abc123", URI: "s3://datasets/hiv/data.csv"}, res)
	assert.Equal(t, "datasets", aws.ToString(client.input.Bucket))
	assert.Equal(t, "hiv/data.csv", aws.ToString(client.input.Key))
	assert.Equal(t, "text/csv", aws.ToString(client.input.ContentType))
	assert.Equal(t, int64(10), aws.ToInt64(client.input.ContentLength))
	assert.Equal(t, "Case_ID\n1\n", string(client.body))
}

func TestUpload_ExplicitKey(t *testing.T) {
	p, err := NewWithClient(&fakeS3{}, Config{Bucket: "b", Key: "exports/latest.csv"})
	require.NoError(t, err)
	assert.Equal(t, "exports/latest.csv", p.ObjectKey("/tmp/data.csv"))
}

func TestUpload_ClientError(t *testing.T) {
	path := writeTemp(t, "x")
	p, err := NewWithClient(&fakeS3{err: errors.New("access denied")}, Config{Bucket: "b"})
	require.NoError(t, err)

	_, err = p.Upload(context.Background(), path, "text/csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://b/data.csv")
	assert.Contains(t, err.Error(), "access denied")
}

func TestUpload_MissingFile(t *testing.T) {
	p, err := NewWithClient(&fakeS3{}, Config{Bucket: "b"})
	require.NoError(t, err)

	_, err = p.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), "text/csv")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
	_, err = NewWithClient(&fakeS3{}, Config{})
	require.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CASEGEN_S3_BUCKET", "env-bucket")
	t.Setenv("CASEGEN_S3_REGION", "eu-west-1")
	t.Setenv("CASEGEN_S3_PATH_STYLE", "TRUE")

	cfg := ConfigFromEnv(Config{Region: "ap-southeast-1"})
	assert.Equal(t, "env-bucket", cfg.Bucket)
	assert.Equal(t, "ap-southeast-1", cfg.Region)
	assert.True(t, cfg.PathStyle)
}
