package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/manish-aj/DocumentAI/blobstore"
)

// DDBClient is the subset of the DynamoDB API used by the commit store.
// *dynamodb.Client satisfies it.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentCommit is returned when another publisher advanced the
// CURRENT pointer first.
var ErrConcurrentCommit = errors.New("concurrent commit detected")

// CommitStore wraps Store with a DynamoDB commit log so multiple
// publishers can safely advance a CURRENT snapshot pointer.
//
// S3 offers no compare-and-swap, so the pointer lives in DynamoDB:
// snapshot blobs are written to S3 under unique names, and a conditional
// write advances the pointer to the newest one. Writing the name "CURRENT"
// through the blobstore interface commits; reading it returns the committed
// snapshot name. All other names pass through to S3 unchanged.
//
// Table schema:
//   - Partition key: base_uri (string)
//   - Sort key: version (number)
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name documentai-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type CommitStore struct {
	store     *Store
	ddb       DDBClient
	tableName string
	baseURI   string
}

// NewCommitStore creates an S3+DynamoDB commit store. baseURI is the
// partition key for this collection's commit history, conventionally
// "s3://bucket/prefix".
func NewCommitStore(store *Store, ddb DDBClient, tableName, baseURI string) *CommitStore {
	return &CommitStore{
		store:     store,
		ddb:       ddb,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// Current returns the committed snapshot name, or blobstore.ErrNotFound
// if nothing has been committed yet.
func (s *CommitStore) Current(ctx context.Context) (string, error) {
	version, key, err := s.latestVersion(ctx)
	if err != nil {
		return "", err
	}
	if version == 0 {
		return "", blobstore.ErrNotFound
	}
	return key, nil
}

// Commit atomically advances the CURRENT pointer to the given snapshot
// name. Returns ErrConcurrentCommit if another publisher won the race.
func (s *CommitStore) Commit(ctx context.Context, snapshotKey string) error {
	version, _, err := s.latestVersion(ctx)
	if err != nil {
		return err
	}

	next := version + 1

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri":     &types.AttributeValueMemberS{Value: s.baseURI},
			"version":      &types.AttributeValueMemberN{Value: strconv.FormatUint(next, 10)},
			"snapshot_key": &types.AttributeValueMemberS{Value: snapshotKey},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentCommit
		}
		return fmt.Errorf("commit version %d: %w", next, err)
	}

	return nil
}

// Open opens a blob for reading. Opening "CURRENT" returns a virtual blob
// holding the committed snapshot name.
func (s *CommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if name == "CURRENT" {
		key, err := s.Current(ctx)
		if err != nil {
			return nil, err
		}
		return &pointerBlob{content: []byte(key)}, nil
	}
	return s.store.Open(ctx, name)
}

// Put writes a blob. Writing "CURRENT" commits the payload as the new
// snapshot pointer.
func (s *CommitStore) Put(ctx context.Context, name string, data []byte) error {
	if name == "CURRENT" {
		return s.Commit(ctx, string(data))
	}
	return s.store.Put(ctx, name, data)
}

// Create creates a blob for streaming writes.
func (s *CommitStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	return s.store.Create(ctx, name)
}

// Delete removes a blob.
func (s *CommitStore) Delete(ctx context.Context, name string) error {
	return s.store.Delete(ctx, name)
}

// List returns the names of blobs with the given prefix, sorted.
func (s *CommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.store.List(ctx, prefix)
}

// latestVersion queries the commit log for the newest committed version.
// A zero version means nothing has been committed yet.
func (s *CommitStore) latestVersion(ctx context.Context) (uint64, string, error) {
	resp, err := s.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.baseURI},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("query commit log: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]

	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("malformed commit item: missing version")
	}
	keyAttr, ok := item["snapshot_key"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("malformed commit item: missing snapshot_key")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse version: %w", err)
	}

	return version, keyAttr.Value, nil
}

// pointerBlob serves the CURRENT pointer content from memory.
type pointerBlob struct {
	content []byte
}

func (b *pointerBlob) Close() error {
	return nil
}

func (b *pointerBlob) Size() int64 {
	return int64(len(b.content))
}

func (b *pointerBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if off >= int64(len(b.content)) {
		return 0, io.EOF
	}
	n := copy(p, b.content[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *pointerBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	size := int64(len(b.content))
	if length <= 0 || off >= size {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}

	end := off + length
	if end > size {
		end = size
	}

	return io.NopCloser(bytes.NewReader(b.content[off:end])), nil
}
