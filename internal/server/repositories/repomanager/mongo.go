package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/rentscope/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepositoryManager vends MongoDB-backed repositories. Its "migration"
// step creates the unique email index.
type MongoRepositoryManager struct {
	client *mongo.Client
	users  *users.MongoRepository
}

// OpenMongo connects to uri and checks the primary is reachable.
func OpenMongo(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}
	return NewMongoRepositoryManager(client, database), nil
}

// NewMongoRepositoryManager wraps a connected client.
func NewMongoRepositoryManager(client *mongo.Client, database string) *MongoRepositoryManager {
	coll := client.Database(database).Collection(users.DefaultUsersCollectionName)
	return &MongoRepositoryManager{client: client, users: users.NewMongoRepository(coll)}
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	return m.users.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
