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

// PropertyRepository implements domain.PropertyRepository using MongoDB.
type PropertyRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewPropertyRepository(db *mongo.Database, log *logger.Logger) *PropertyRepository {
	collection := db.Collection(propertiesCollection)
	ensureListingIndexes(collection, log)
	return &PropertyRepository{
		collection: collection,
		logger:     log.Named("PropertyRepository"),
	}
}

func (r *PropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	doc, err := fromDomainProperty(property)
	if err != nil {
		r.logger.Error("Failed to convert property to document", zap.Error(err))
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("InsertOne failed", zap.String("seller_id", property.SellerID), zap.Error(err))
		return fmt.Errorf("%w: insert property: %v", domain.ErrRepository, err)
	}

	property.ID = doc.ID.Hex()
	property.CreatedAt = doc.CreatedAt
	property.Photos = doc.Photos
	r.logger.Info("Property created", zap.String("property_id", property.ID), zap.String("seller_id", property.SellerID))
	return nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPropertyNotFound
	}

	var doc propertyDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPropertyNotFound
		}
		r.logger.Error("FindOne failed", zap.String("property_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: find property: %v", domain.ErrRepository, err)
	}
	return doc.toDomain(), nil
}

func (r *PropertyRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Property, error) {
	oids := objectIDsFromHex(ids)
	if len(oids) == 0 {
		return []*domain.Property{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *PropertyRepository) FindAll(ctx context.Context, sellerID string) ([]*domain.Property, error) {
	filter := bson.M{}
	if sellerID != "" {
		oid, err := primitive.ObjectIDFromHex(sellerID)
		if err != nil {
			return []*domain.Property{}, nil
		}
		filter["seller"] = oid
	}
	return r.find(ctx, filter)
}

func (r *PropertyRepository) find(ctx context.Context, filter bson.M) ([]*domain.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Find failed", zap.Error(err))
		return nil, fmt.Errorf("%w: find properties: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Cursor All failed", zap.Error(err))
		return nil, fmt.Errorf("%w: decode properties: %v", domain.ErrRepository, err)
	}

	properties := make([]*domain.Property, 0, len(docs))
	for i := range docs {
		properties = append(properties, docs[i].toDomain())
	}
	return properties, nil
}
