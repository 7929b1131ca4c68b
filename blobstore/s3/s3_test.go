package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manish-aj/DocumentAI/blobstore"
)

// fakeS3Client is an in-memory stand-in for the S3 API surface the store
// uses. Multipart operations are not supported; streamed uploads below the
// part size take the single PutObject path.
type fakeS3Client struct {
	mu       sync.Mutex
	objects  map[string][]byte
	pageSize int
}

func newFakeS3Client() *fakeS3Client {
	return &fakeS3Client{objects: make(map[string][]byte)}
}

func (f *fakeS3Client) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (f *fakeS3Client) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}

	start, end := int64(0), int64(len(data))-1
	if rng := aws.ToString(params.Range); rng != "" {
		if _, err := fmt.Sscanf(rng, "bytes=%d-%d", &start, &end); err != nil {
			return nil, fmt.Errorf("fake: bad range %q: %w", rng, err)
		}
		if end >= int64(len(data)) {
			end = int64(len(data)) - 1
		}
	}

	body := data[start : end+1]
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func (f *fakeS3Client) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(params.Key)] = data

	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3Client) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3Client) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(params.Prefix)) {
			keys = append(keys, key)
		}
	}
	f.mu.Unlock()
	sort.Strings(keys)

	start := 0
	if params.ContinuationToken != nil {
		start, _ = strconv.Atoi(*params.ContinuationToken)
	}

	end := len(keys)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	out := &s3.ListObjectsV2Output{}
	for _, key := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	if end < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeS3Client) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("fake: multipart upload not supported")
}

func (f *fakeS3Client) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("fake: multipart upload not supported")
}

func (f *fakeS3Client) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("fake: multipart upload not supported")
}

func (f *fakeS3Client) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("fake: multipart upload not supported")
}

func TestStoreOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		store := NewStore(newFakeS3Client(), "bucket", "prefix")

		_, err := store.Open(ctx, "missing.dai")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("Size", func(t *testing.T) {
		client := newFakeS3Client()
		client.objects["prefix/snap.dai"] = []byte("0123456789")
		store := NewStore(client, "bucket", "prefix")

		blob, err := store.Open(ctx, "snap.dai")
		require.NoError(t, err)
		defer blob.Close()

		assert.Equal(t, int64(10), blob.Size())
	})
}

func TestStorePut(t *testing.T) {
	ctx := context.Background()

	t.Run("WithChecksum", func(t *testing.T) {
		client := newFakeS3Client()
		store := NewStore(client, "bucket", "prefix")

		require.NoError(t, store.Put(ctx, "snap.dai", []byte("container bytes")))
		assert.Equal(t, []byte("container bytes"), client.objects["prefix/snap.dai"])
	})

	t.Run("WithoutChecksum", func(t *testing.T) {
		client := newFakeS3Client()
		store := NewStore(client, "bucket", "prefix", func(o *StoreOptions) {
			o.Upload.EnableChecksum = false
		})

		require.NoError(t, store.Put(ctx, "snap.dai", []byte("container bytes")))
		assert.Equal(t, []byte("container bytes"), client.objects["prefix/snap.dai"])
	})
}

func TestBlobReadAt(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3Client()
	client.objects["snap.dai"] = []byte("0123456789")

	store := NewStore(client, "bucket", "")
	blob, err := store.Open(ctx, "snap.dai")
	require.NoError(t, err)
	defer blob.Close()

	t.Run("Middle", func(t *testing.T) {
		buf := make([]byte, 4)
		n, err := blob.ReadAt(ctx, buf, 3)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, "3456", string(buf))
	})

	t.Run("ClampedTail", func(t *testing.T) {
		buf := make([]byte, 5)
		n, err := blob.ReadAt(ctx, buf, 8)
		assert.Equal(t, 2, n)
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, "89", string(buf[:n]))
	})

	t.Run("PastEnd", func(t *testing.T) {
		buf := make([]byte, 4)
		n, err := blob.ReadAt(ctx, buf, 100)
		assert.Zero(t, n)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		canceled, cancel := context.WithCancel(context.Background())
		cancel()

		buf := make([]byte, 4)
		_, err := blob.ReadAt(canceled, buf, 0)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBlobReadRange(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3Client()
	client.objects["snap.dai"] = []byte("0123456789")

	store := NewStore(client, "bucket", "")
	blob, err := store.Open(ctx, "snap.dai")
	require.NoError(t, err)
	defer blob.Close()

	readAll := func(t *testing.T, off, length int64) string {
		t.Helper()
		rc, err := blob.ReadRange(ctx, off, length)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}

	t.Run("Middle", func(t *testing.T) {
		assert.Equal(t, "23456", readAll(t, 2, 5))
	})

	t.Run("ClampedTail", func(t *testing.T) {
		assert.Equal(t, "89", readAll(t, 8, 10))
	})

	t.Run("PastEnd", func(t *testing.T) {
		assert.Empty(t, readAll(t, 100, 4))
	})
}

func TestStoreCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Streams", func(t *testing.T) {
		client := newFakeS3Client()
		store := NewStore(client, "bucket", "prefix")

		wb, err := store.Create(ctx, "streamed.dai")
		require.NoError(t, err)

		_, err = wb.Write([]byte("part one, "))
		require.NoError(t, err)
		_, err = wb.Write([]byte("part two"))
		require.NoError(t, err)
		require.NoError(t, wb.Close())

		assert.Equal(t, []byte("part one, part two"), client.objects["prefix/streamed.dai"])
	})

	t.Run("AbortDoesNotCommit", func(t *testing.T) {
		client := newFakeS3Client()
		store := NewStore(client, "bucket", "prefix")

		wb, err := store.Create(ctx, "aborted.dai")
		require.NoError(t, err)

		_, err = wb.Write([]byte("partial"))
		require.NoError(t, err)

		aborter, ok := wb.(blobstore.Aborter)
		require.True(t, ok)
		require.NoError(t, aborter.Abort())

		assert.NotContains(t, client.objects, "prefix/aborted.dai")
	})
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3Client()
	client.objects["prefix/snap.dai"] = []byte("data")
	store := NewStore(client, "bucket", "prefix")

	require.NoError(t, store.Delete(ctx, "snap.dai"))
	assert.Empty(t, client.objects)

	// S3 deletes of missing keys succeed.
	require.NoError(t, store.Delete(ctx, "snap.dai"))
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()

	t.Run("StripsPrefix", func(t *testing.T) {
		client := newFakeS3Client()
		client.objects["prefix/file1"] = []byte("1")
		client.objects["prefix/dir/file2"] = []byte("2")
		client.objects["other/file3"] = []byte("3")
		store := NewStore(client, "bucket", "prefix/")

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"dir/file2", "file1"}, names)
	})

	t.Run("Pagination", func(t *testing.T) {
		client := newFakeS3Client()
		client.pageSize = 1
		client.objects["prefix/1"] = []byte("1")
		client.objects["prefix/2"] = []byte("2")
		client.objects["prefix/3"] = []byte("3")
		store := NewStore(client, "bucket", "prefix/")

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, names)
	})
}

func TestComputeCRC32C(t *testing.T) {
	// CRC-32C check value for "123456789".
	assert.Equal(t, "4waSgw==", computeCRC32C([]byte("123456789")))
}
