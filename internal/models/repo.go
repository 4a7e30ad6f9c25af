package models

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Validate = validator.New()

type SupabaseRepo struct {
	supabaseClient *supabase.Client
}

func SupabaseNewRepo(supabaseClient *supabase.Client) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
	}
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

func (mdb *MongodbRepo) Create(ctx context.Context, collection string, doc any) (string, error) {
	col, err := mdb.GetCollection(collection)
	if err != nil {
		return "", err
	}
	m, err := ToDocument(doc)
	if err != nil {
		return "", err
	}
	id, _ := m["_id"].(string)
	if id == "" {
		id = primitive.NewObjectID().Hex()
		m["_id"] = id
	}

	if _, err := col.InsertOne(ctx, m); err != nil {
		return "", fmt.Errorf("error inserting into %s: %w", collection, err)
	}
	return id, nil
}

func (mdb *MongodbRepo) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}
	col, err := mdb.GetCollection(collection)
	if err != nil {
		return err
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("error updating %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (mdb *MongodbRepo) Delete(ctx context.Context, collection, id string) error {
	col, err := mdb.GetCollection(collection)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (mdb *MongodbRepo) Get(ctx context.Context, collection, id string, out any) error {
	col, err := mdb.GetCollection(collection)
	if err != nil {
		return err
	}

	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("error finding %s/%s: %w", collection, id, err)
	}
	return nil
}

func (mdb *MongodbRepo) Query(ctx context.Context, collection string, q Query, out any) error {
	col, err := mdb.GetCollection(collection)
	if err != nil {
		return err
	}

	opts := options.Find()
	if sort := q.Sort(); sort != nil {
		opts.SetSort(sort)
	}

	cursor, err := col.Find(ctx, q.Filter(), opts)
	if err != nil {
		return fmt.Errorf("error querying %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("error decoding %s: %w", collection, err)
	}
	return nil
}

// Subscribe opens a change stream on the collection and re-runs the query
// after every change. Change streams require a replica set or Atlas cluster.
func (mdb *MongodbRepo) Subscribe(ctx context.Context, collection string, q Query, listener Listener) (Unsubscribe, error) {
	col, err := mdb.GetCollection(collection)
	if err != nil {
		return nil, err
	}

	wctx, cancel := context.WithCancel(ctx)

	// The stream is opened before the first snapshot so no change is missed in between.
	stream, err := col.Watch(wctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("error watching %s: %w", collection, err)
	}

	deliver := func() {
		var docs []bson.Raw
		if err := mdb.Query(wctx, collection, q, &docs); err != nil {
			if wctx.Err() != nil {
				return
			}
			listener(Snapshot{Err: err})
			return
		}
		listener(Snapshot{Docs: docs})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer stream.Close(context.Background())

		deliver()
		for stream.Next(wctx) {
			deliver()
		}
		if err := stream.Err(); err != nil && wctx.Err() == nil {
			listener(Snapshot{Err: fmt.Errorf("change stream on %s ended: %w", collection, err)})
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}
