package sourcemanager

import (
	"context"
	"fmt"

	"go-chainmap/internal/providers"
	"go-chainmap/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sourceConfigsCollection = "source_configs"

// sourceConfigDoc is the persisted shape of one configured source,
// replacing the original's QSettings-backed "MapSources" JSON blob
// (source_manager.py's save_configuration/load_configuration) with a Mongo
// collection.
type sourceConfigDoc struct {
	ID      string         `bson:"_id"`
	Kind    string         `bson:"kind"`
	Name    string         `bson:"name"`
	Enabled bool           `bson:"enabled"`
	Config  map[string]any `bson:"config"`
}

// ConfigStore persists Provider Client configuration to MongoDB.
type ConfigStore struct {
	collection *mongo.Collection
}

// NewConfigStore wraps the given database's source_configs collection.
func NewConfigStore(db *database.MongoDB) *ConfigStore {
	return &ConfigStore{collection: db.Collection(sourceConfigsCollection)}
}

// Save upserts a source's current configuration.
func (s *ConfigStore) Save(ctx context.Context, client providers.Client) error {
	doc := sourceConfigDoc{
		ID:      client.ID(),
		Kind:    string(client.Type()),
		Name:    client.Name(),
		Enabled: client.Enabled(),
		Config:  client.ToConfig(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	if err != nil {
		return fmt.Errorf("save source config %s: %w", doc.ID, err)
	}
	return nil
}

// Delete removes a source's persisted configuration.
func (s *ConfigStore) Delete(ctx context.Context, id string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete source config %s: %w", id, err)
	}
	return nil
}

// LoadAll returns every persisted source configuration document.
func (s *ConfigStore) LoadAll(ctx context.Context) ([]sourceConfigDoc, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []sourceConfigDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
