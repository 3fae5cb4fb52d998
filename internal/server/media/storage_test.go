package media

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	puts      []*s3.PutObjectInput
	bodies    [][]byte
	deletes   []string
	putErr    error
	deleteErr error
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func stage(t *testing.T, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, content, 0o600))
	return p
}

func TestUpload_PutsAndRemovesLocalFile(t *testing.T) {
	fake := &fakeObjects{}
	st := newStorage(fake, "media", "http://localhost:9000/")
	st.now = func() time.Time { return time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC) }

	path := stage(t, "Photo.PNG", []byte("\x89PNG\r\n\x1a\n0000"))

	obj, err := st.Upload(context.Background(), path, FolderAvatars)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^avatars/2024/03/07/[0-9a-f-]{36}\.png$`), obj.Key)
	assert.Equal(t, "http://localhost:9000/media/"+obj.Key, obj.URL)

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "media", aws.ToString(fake.puts[0].Bucket))
	assert.Equal(t, "image/png", aws.ToString(fake.puts[0].ContentType))
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n0000"), fake.bodies[0])

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "staged file must be removed")
}

func TestUpload_FailureStillRemovesLocalFile(t *testing.T) {
	fake := &fakeObjects{putErr: errors.New("bucket gone")}
	st := newStorage(fake, "media", "http://localhost:9000")

	path := stage(t, "clip.mp4", []byte("not really a video"))

	_, err := st.Upload(context.Background(), path, FolderVideos)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestUpload_MissingFile(t *testing.T) {
	st := newStorage(&fakeObjects{}, "media", "http://localhost:9000")

	_, err := st.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.png"), FolderAvatars)
	require.Error(t, err)

	_, err = st.Upload(context.Background(), "", FolderAvatars)
	require.Error(t, err)
}

func TestDelete(t *testing.T) {
	fake := &fakeObjects{}
	st := newStorage(fake, "media", "http://localhost:9000")

	require.NoError(t, st.Delete(context.Background(), ""))
	assert.Empty(t, fake.deletes)

	require.NoError(t, st.Delete(context.Background(), "avatars/a.png"))
	assert.Equal(t, []string{"avatars/a.png"}, fake.deletes)

	fake.deleteErr = errors.New("denied")
	assert.Error(t, st.Delete(context.Background(), "avatars/b.png"))
}

func TestNewKey_DatedFolder(t *testing.T) {
	at := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	k1 := NewKey(FolderThumbnails, "/tmp/x.JPG", at)
	k2 := NewKey(FolderThumbnails, "/tmp/x.JPG", at)

	assert.Regexp(t, `^thumbnails/2025/12/01/.+\.jpg$`, k1)
	assert.NotEqual(t, k1, k2)
}

func TestNewS3Storage_AppliesSettings(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-central-1", lo.Region)
		return aws.Config{Region: lo.Region}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return s3.New(opts)
	}

	st, err := NewS3Storage(context.Background(), Settings{
		Region: "eu-central-1", AccessKey: "ak", SecretKey: "sk",
		BaseEndpoint: "http://minio:9000", Bucket: "media", PublicURL: "https://cdn.example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://minio:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "https://cdn.example.com/media/k", st.URL("k"))
}

func TestNewS3Storage_ConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no creds")
	}

	_, err := NewS3Storage(context.Background(), Settings{})
	assert.ErrorContains(t, err, "no creds")
}

func TestPresignGet(t *testing.T) {
	origPresign := presignGetObject
	t.Cleanup(func() { presignGetObject = origPresign })

	st := newStorage(&fakeObjects{}, "media", "http://localhost:9000")

	_, err := st.PresignGet(context.Background(), "k", time.Minute)
	require.Error(t, err, "no presigner configured")

	st.presigner = &s3.PresignClient{}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, 5*time.Minute, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "http://signed/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)}, nil
	}

	url, err := st.PresignGet(context.Background(), "videos/a.mp4", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://signed/media/videos/a.mp4", url)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failed")
	}
	_, err = st.PresignGet(context.Background(), "k", time.Minute)
	assert.ErrorContains(t, err, "sign failed")
}
