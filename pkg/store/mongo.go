package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/retry"
	"github.com/matzehuels/sitegraph/pkg/site"
)

// Defaults for MongoOptions.
const (
	DefaultDatabase   = "sitegraph"
	DefaultCollection = "snapshots"
	connectTimeout    = 10 * time.Second
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps snapshots in MongoDB.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects, pings and ensures the project index.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo uri is required")
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}

	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongo")
	}
	err = retry.Do(cctx, retry.DefaultAttempts, retry.DefaultDelay, func() error {
		return retry.Transient(client.Ping(cctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongo")
	}

	s := NewMongoStoreFromClient(client, opts.Database, opts.Collection)
	if _, err := s.coll.Indexes().CreateOne(cctx, projectIndex()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create snapshot index")
	}
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client without connecting.
func NewMongoStoreFromClient(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
		now:    time.Now,
	}
}

func projectIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: "project_dir", Value: 1}, {Key: "saved_at", Value: -1}},
	}
}

func projectFilter(projectDir string) bson.D {
	return bson.D{{Key: "project_dir", Value: canonicalDir(projectDir)}}
}

func newestFirst() bson.D {
	return bson.D{{Key: "saved_at", Value: -1}}
}

// summaryProjection selects the Summary fields.
func summaryProjection() bson.D {
	return bson.D{
		{Key: "_id", Value: 1},
		{Key: "project_dir", Value: 1},
		{Key: "analyzed_at", Value: 1},
		{Key: "saved_at", Value: 1},
		{Key: "file_count", Value: 1},
		{Key: "edge_count", Value: 1},
	}
}

// Save implements Store.
func (m *MongoStore) Save(ctx context.Context, projectDir string, s *site.Structure) (Summary, error) {
	if s == nil {
		return Summary{}, errors.New(errors.ErrCodeInvalidInput, "nil structure")
	}
	doc := newDocument(projectDir, s, m.now())
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return Summary{}, errors.Wrap(errors.ErrCodeStore, err, "save snapshot")
	}
	return doc.Summary, nil
}

// Latest implements Store.
func (m *MongoStore) Latest(ctx context.Context, projectDir string) (*Snapshot, error) {
	var doc document
	err := m.coll.FindOne(ctx, projectFilter(projectDir), options.FindOne().SetSort(newestFirst())).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "no snapshots for %s", canonicalDir(projectDir))
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load snapshot")
	}
	return doc.snapshot(), nil
}

// List implements Store.
func (m *MongoStore) List(ctx context.Context, projectDir string, limit int) ([]Summary, error) {
	opts := options.Find().
		SetSort(newestFirst()).
		SetLimit(int64(listLimit(limit))).
		SetProjection(summaryProjection())

	cur, err := m.coll.Find(ctx, projectFilter(projectDir), opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list snapshots")
	}
	defer cur.Close(ctx)

	out := []Summary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode snapshots")
	}
	return out, nil
}

// Close disconnects the client.
func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
