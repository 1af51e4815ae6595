package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecommerce-platform/auth-service/internal/core/domain"
)

const tokenCollection = "refresh_tokens"

type MongoRefreshTokenRepository struct {
	coll *mongo.Collection
}

func NewRefreshTokenRepository(db *mongo.Database) *MongoRefreshTokenRepository {
	return &MongoRefreshTokenRepository{coll: db.Collection(tokenCollection)}
}

// EnsureIndexes creates the unique token index plus the lookup indexes used by
// bulk revocation and the expiry sweep. Call once at startup.
func (r *MongoRefreshTokenRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create refresh token indexes: %w", err)
	}
	return nil
}

type mongoRefreshToken struct {
	Token     string    `bson:"token"`
	UserID    string    `bson:"user_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *MongoRefreshTokenRepository) Insert(ctx context.Context, token *domain.RefreshToken) error {
	doc := mongoRefreshToken{
		Token:     token.Token,
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *MongoRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var mt mongoRefreshToken
	if err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&mt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *MongoRefreshTokenRepository) FindByUser(ctx context.Context, userID string) ([]domain.RefreshToken, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("find refresh tokens by user: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.RefreshToken
	for cursor.Next(ctx) {
		var mt mongoRefreshToken
		if err := cursor.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode refresh token: %w", err)
		}
		out = append(out, *mt.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate refresh tokens: %w", err)
	}
	return out, nil
}

func (r *MongoRefreshTokenRepository) Delete(ctx context.Context, token string) error {
	// DeletedCount 0 is fine: deleting an absent record is success.
	if _, err := r.coll.DeleteOne(ctx, bson.M{"token": token}); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (r *MongoRefreshTokenRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("delete refresh tokens by user: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *MongoRefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": before}})
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	return res.DeletedCount, nil
}

func (mt *mongoRefreshToken) toDomain() *domain.RefreshToken {
	return &domain.RefreshToken{
		Token:     mt.Token,
		UserID:    mt.UserID,
		ExpiresAt: mt.ExpiresAt,
		CreatedAt: mt.CreatedAt,
	}
}
