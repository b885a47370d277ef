package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/malazinvestment/backend/config"
	"github.com/malazinvestment/backend/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	companiesCollection = "companies"
	usersCollection     = "users"
)

// ConnectMongo opens a client and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, cfg *config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	slog.Info("connected to mongo", "database", cfg.Database)
	return client, nil
}

// MongoCompanyStore keeps companies in a MongoDB collection
type MongoCompanyStore struct {
	coll *mongo.Collection
}

func NewMongoCompanyStore(db *mongo.Database) *MongoCompanyStore {
	return &MongoCompanyStore{coll: db.Collection(companiesCollection)}
}

func (s *MongoCompanyStore) Create(ctx context.Context, company *model.Company) (primitive.ObjectID, error) {
	res, err := s.coll.InsertOne(ctx, company)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert company: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (s *MongoCompanyStore) Get(ctx context.Context, id primitive.ObjectID) (*model.Company, error) {
	var company model.Company
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&company)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return &company, nil
}

func (s *MongoCompanyStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCompanyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if res.DeletedCount != 1 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCompanyStore) List(ctx context.Context, filter CompanyFilter, page Page) ([]model.Company, int64, error) {
	query := filter.BSON()

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(page.Skip)
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}

	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	defer cursor.Close(ctx)

	companies := []model.Company{}
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, 0, fmt.Errorf("failed to decode companies: %w", err)
	}
	return companies, total, nil
}

// MongoUserStore keeps admin accounts in a MongoDB collection
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(usersCollection)}
}

func (s *MongoUserStore) Create(ctx context.Context, user *model.User) (primitive.ObjectID, error) {
	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert user: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (s *MongoUserStore) Get(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *MongoUserStore) List(ctx context.Context) ([]model.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (s *MongoUserStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*model.User, error) {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *MongoUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount != 1 {
		return ErrNotFound
	}
	return nil
}
