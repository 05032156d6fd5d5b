package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bploeckelman/nodes/pkg/errors"
)

// Default database and collection names for [MongoStore].
const (
	DefaultMongoDatabase   = "nodes"
	DefaultMongoCollection = "documents"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps documents in a MongoDB collection, one record per
// document keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDocument struct {
	Name      string    `bson:"_id"`
	Body      []byte    `bson:"body"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewMongoStore connects to MongoDB and pings the primary.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, storageError(err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, storageError(err, "ping mongodb")
	}

	db := cfg.Database
	if db == "" {
		db = DefaultMongoDatabase
	}
	coll := cfg.Collection
	if coll == "" {
		coll = DefaultMongoCollection
	}
	return &MongoStore{client: client, coll: client.Database(db).Collection(coll)}, nil
}

func (s *MongoStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	var doc mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, storageError(err, "find document %q", name)
	}
	return doc.Body, nil
}

func (s *MongoStore) Put(ctx context.Context, name string, body []byte) error {
	if err := errors.ValidateDocumentName(name); err != nil {
		return err
	}
	doc := mongoDocument{Name: name, Body: body, UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return storageError(err, "replace document %q", name)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDocumentName(name); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return storageError(err, "delete document %q", name)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Entry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "updatedAt", Value: 1},
			{Key: "size", Value: bson.D{{Key: "$binarySize", Value: "$body"}}},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storageError(err, "list documents")
	}
	defer cur.Close(ctx)

	var out []Entry
	for cur.Next(ctx) {
		var row struct {
			Name      string    `bson:"_id"`
			Size      int       `bson:"size"`
			UpdatedAt time.Time `bson:"updatedAt"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, storageError(err, "decode document entry")
		}
		out = append(out, Entry{Name: row.Name, Size: row.Size, UpdatedAt: row.UpdatedAt})
	}
	if err := cur.Err(); err != nil {
		return nil, storageError(err, "list documents")
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
