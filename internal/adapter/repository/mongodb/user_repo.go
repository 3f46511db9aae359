package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// UserRepository implements domain.UserRepository using MongoDB.
type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewUserRepository ensures the unique indexes on mobileno and password.
func NewUserRepository(db *mongo.Database, log *logger.Logger) *UserRepository {
	collection := db.Collection(usersCollection)

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "mobileno", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "password", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn("Failed to create indexes for users collection (may already exist)", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for users collection")
	}

	return &UserRepository{
		collection: collection,
		logger:     log.Named("UserRepository"),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.logger.Info("Creating user", zap.Int64("mobileno", user.MobileNo))

	doc, err := fromDomainUser(user)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate user on insert", zap.Int64("mobileno", user.MobileNo))
			return domain.ErrMobileTaken
		}
		r.logger.Error("InsertOne failed", zap.Error(err))
		return fmt.Errorf("%w: insert user: %v", domain.ErrRepository, err)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.CreatedAt
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByMobile(ctx context.Context, mobileNo int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"mobileno": mobileNo})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("FindOne failed", zap.Any("filter", filter), zap.Error(err))
		return nil, fmt.Errorf("%w: find user: %v", domain.ErrRepository, err)
	}
	return doc.toDomain(), nil
}

// FindByIDs returns the users that exist among ids, in no particular order.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	oids := objectIDsFromHex(ids)
	if len(oids) == 0 {
		return []*domain.User{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		r.logger.Error("Find by ids failed", zap.Int("count", len(oids)), zap.Error(err))
		return nil, fmt.Errorf("%w: find users: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode users: %v", domain.ErrRepository, err)
	}
	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id, username, profilePic string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	set := bson.M{"username": username}
	if profilePic != "" {
		set["profilePic"] = profilePic
	}
	return r.update(ctx, oid, bson.M{"$set": set}, "UpdateProfile")
}

// AddFavorite appends ref unless it is already present.
func (r *UserRepository) AddFavorite(ctx context.Context, userID string, ref domain.FavoriteRef) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	fav, err := fromDomainFavorite(ref)
	if err != nil {
		return err
	}
	return r.update(ctx, oid, bson.M{"$addToSet": bson.M{"favorites": fav}}, "AddFavorite")
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, userID string, ref domain.FavoriteRef) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	fav, err := fromDomainFavorite(ref)
	if err != nil {
		return err
	}
	pull := bson.M{"favorites": bson.M{"itemId": fav.ItemID, "itemType": fav.ItemType}}
	return r.update(ctx, oid, bson.M{"$pull": pull}, "RemoveFavorite")
}

func (r *UserRepository) update(ctx context.Context, oid primitive.ObjectID, update bson.M, op string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		r.logger.Error(op+" failed", zap.String("user_id", oid.Hex()), zap.Error(err))
		return fmt.Errorf("%w: %s: %v", domain.ErrRepository, op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	r.logger.Debug(op+" applied", zap.String("user_id", oid.Hex()), zap.Int64("modified", res.ModifiedCount))
	return nil
}
