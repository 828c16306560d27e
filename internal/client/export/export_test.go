package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	at := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "search-results-20240315-093000.csv", FileName("", at))
	assert.Equal(t, "search-results-20240315-093000.xlsx", FileName("xlsx", at))
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	sink := FileSink{Dir: dir}

	path, err := sink.Write(context.Background(), "out.csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}

func TestFileSink_RejectsPaths(t *testing.T) {
	sink := FileSink{Dir: t.TempDir()}
	for _, name := range []string{"", "../x.csv", "a/b.csv", ".hidden"} {
		_, err := sink.Write(context.Background(), name, nil)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

type fakePut struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakePut) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func stubS3(t *testing.T, put *fakePut) *s3.Options {
	t.Helper()
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	var applied s3.Options
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		return aws.Config{Region: lo.Region, Credentials: lo.Credentials}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		applied.Region = cfg.Region
		applied.Credentials = cfg.Credentials
		for _, fn := range optFns {
			fn(&applied)
		}
		return put
	}
	return &applied
}

func TestS3Sink_Write(t *testing.T) {
	put := &fakePut{}
	opts := stubS3(t, put)

	sink, err := NewS3Sink(context.Background(), S3Config{
		Bucket: "exports", Region: "us-east-1", Endpoint: "http://127.0.0.1:9000",
		AccessKey: "minioadmin", SecretKey: "minioadmin", Prefix: "msv/",
	})
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", opts.Region)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	creds, err := opts.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minioadmin", creds.AccessKeyID)

	loc, err := sink.Write(context.Background(), "r.json", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "s3://exports/msv/r.json", loc)
	assert.Equal(t, "msv/r.json", aws.ToString(put.in.Key))
	assert.Equal(t, "x", put.body)
	assert.Equal(t, "application/json", aws.ToString(put.in.ContentType))
}

func TestS3Sink_Errors(t *testing.T) {
	_, err := NewS3Sink(context.Background(), S3Config{})
	require.Error(t, err)

	boom := errors.New("denied")
	stubS3(t, &fakePut{err: boom})
	sink, err := NewS3Sink(context.Background(), S3Config{Bucket: "b", Region: "r"})
	require.NoError(t, err)

	_, err = sink.Write(context.Background(), "r.json", []byte("{}"))
	assert.ErrorIs(t, err, boom)
}
