package mongodb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var testDB *mongo.Database

// TestMain starts a throwaway MongoDB. When Docker is not reachable the
// integration tests skip and the pure unit tests still run.
func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("Docker unavailable, skipping MongoDB integration tests: %s", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	_ = resource.Expire(120)

	uri := fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp"))
	var client *mongo.Client
	if err := pool.Retry(func() error {
		var errRetry error
		client, errRetry = Connect(context.Background(), uri, 5*time.Second)
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}
	testDB = client.Database("marketplace_test")

	code := m.Run()

	_ = client.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func requireMongo(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("MongoDB not available")
	}
}

func TestUserRepository_Integration(t *testing.T) {
	requireMongo(t)
	ctx := context.Background()
	repo := NewUserRepository(testDB, logger.NewNop())

	user := &domain.User{
		Username:     "Jane Doe",
		MobileNo:     9876500001,
		PasswordHash: "$2a$12$hash-one",
		ProfilePic:   domain.DefaultProfilePic,
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	t.Run("duplicate mobile is a conflict", func(t *testing.T) {
		dup := &domain.User{Username: "Other", MobileNo: user.MobileNo, PasswordHash: "$2a$12$hash-two"}
		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrMobileTaken)
	})

	t.Run("find by mobile and id", func(t *testing.T) {
		byMobile, err := repo.FindByMobile(ctx, user.MobileNo)
		require.NoError(t, err)
		assert.Equal(t, user.ID, byMobile.ID)

		byID, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", byID.Username)

		_, err = repo.FindByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("favorites add is idempotent and remove pulls", func(t *testing.T) {
		ref := domain.FavoriteRef{ItemID: primitive.NewObjectID().Hex(), ItemType: domain.ItemTypeCar}
		require.NoError(t, repo.AddFavorite(ctx, user.ID, ref))
		require.NoError(t, repo.AddFavorite(ctx, user.ID, ref))

		got, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, got.Favorites, 1)
		assert.True(t, got.HasFavorite(ref.ItemID, ref.ItemType))

		require.NoError(t, repo.RemoveFavorite(ctx, user.ID, ref))
		got, err = repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Favorites)
	})

	t.Run("update profile keeps picture when none given", func(t *testing.T) {
		require.NoError(t, repo.UpdateProfile(ctx, user.ID, "Jane Q. Doe", ""))
		got, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane Q. Doe", got.Username)
		assert.Equal(t, domain.DefaultProfilePic, got.ProfilePic)
	})
}

func TestListingRepositories_Integration(t *testing.T) {
	requireMongo(t)
	ctx := context.Background()
	cars := NewCarRepository(testDB, logger.NewNop())
	properties := NewPropertyRepository(testDB, logger.NewNop())

	sellerA := primitive.NewObjectID().Hex()
	sellerB := primitive.NewObjectID().Hex()

	for i, seller := range []string{sellerA, sellerB, sellerA} {
		car := &domain.Car{
			SellerID: seller, Category: domain.CategoryCar, Brand: "Tata", Year: 2020,
			Fuel: domain.FuelDiesel, Transmission: domain.TransmissionManual,
			AdTitle: fmt.Sprintf("Car %d", i), Price: 1000, State: "MH", City: "Pune",
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, cars.Create(ctx, car))
	}

	mine, err := cars.FindAll(ctx, sellerA)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Car 2", mine[0].AdTitle, "newest first")
	for _, c := range mine {
		assert.Equal(t, sellerA, c.SellerID)
	}

	all, err := cars.FindAll(ctx, "")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), 3)

	_, err = cars.FindByID(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrCarNotFound)

	baths := 1
	prop := &domain.Property{
		SellerID: sellerB, Category: domain.CategoryProperty, HouseType: "Apartment", BHK: 1,
		Bathrooms: &baths, ListedBy: domain.ListedByOwner, AdTitle: "Studio", Price: 10, State: "KA", City: "Mysuru",
	}
	require.NoError(t, properties.Create(ctx, prop))
	got, err := properties.FindByID(ctx, prop.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TotalFloors)
	assert.Equal(t, domain.Furnishing(""), got.Furnishing)

	byIDs, err := properties.FindByIDs(ctx, []string{prop.ID, primitive.NewObjectID().Hex(), "bad"})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)
}
