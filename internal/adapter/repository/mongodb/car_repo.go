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

// CarRepository implements domain.CarRepository using MongoDB.
type CarRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewCarRepository(db *mongo.Database, log *logger.Logger) *CarRepository {
	collection := db.Collection(carsCollection)
	ensureListingIndexes(collection, log)
	return &CarRepository{
		collection: collection,
		logger:     log.Named("CarRepository"),
	}
}

// ensureListingIndexes serves the seller filter and newest-first ordering.
func ensureListingIndexes(collection *mongo.Collection, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "seller", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn("Failed to create listing indexes", zap.String("collection", collection.Name()), zap.Error(err))
		return
	}
	log.Info("Successfully ensured listing indexes", zap.String("collection", collection.Name()))
}

func (r *CarRepository) Create(ctx context.Context, car *domain.Car) error {
	doc, err := fromDomainCar(car)
	if err != nil {
		r.logger.Error("Failed to convert car to document", zap.Error(err))
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("InsertOne failed", zap.String("seller_id", car.SellerID), zap.Error(err))
		return fmt.Errorf("%w: insert car: %v", domain.ErrRepository, err)
	}

	car.ID = doc.ID.Hex()
	car.CreatedAt = doc.CreatedAt
	car.Photos = doc.Photos
	r.logger.Info("Car created", zap.String("car_id", car.ID), zap.String("seller_id", car.SellerID))
	return nil
}

func (r *CarRepository) FindByID(ctx context.Context, id string) (*domain.Car, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCarNotFound
	}

	var doc carDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCarNotFound
		}
		r.logger.Error("FindOne failed", zap.String("car_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: find car: %v", domain.ErrRepository, err)
	}
	return doc.toDomain(), nil
}

func (r *CarRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Car, error) {
	oids := objectIDsFromHex(ids)
	if len(oids) == 0 {
		return []*domain.Car{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *CarRepository) FindAll(ctx context.Context, sellerID string) ([]*domain.Car, error) {
	filter := bson.M{}
	if sellerID != "" {
		oid, err := primitive.ObjectIDFromHex(sellerID)
		if err != nil {
			return []*domain.Car{}, nil
		}
		filter["seller"] = oid
	}
	return r.find(ctx, filter)
}

func (r *CarRepository) find(ctx context.Context, filter bson.M) ([]*domain.Car, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Find failed", zap.Error(err))
		return nil, fmt.Errorf("%w: find cars: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []carDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Cursor All failed", zap.Error(err))
		return nil, fmt.Errorf("%w: decode cars: %v", domain.ErrRepository, err)
	}

	cars := make([]*domain.Car, 0, len(docs))
	for i := range docs {
		cars = append(cars, docs[i].toDomain())
	}
	return cars, nil
}
