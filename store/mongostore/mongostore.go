// Package mongostore implements store.Store on MongoDB. Checkout
// transactions need a replica set or sharded cluster.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salonpos/models"
	"salonpos/store"
)

const settingsID = "default"

type collections struct {
	services     *mongo.Collection
	inventory    *mongo.Collection
	customers    *mongo.Collection
	transactions *mongo.Collection
	bills        *mongo.Collection
	tiers        *mongo.Collection
	settings     *mongo.Collection
	users        *mongo.Collection
	idempotency  *mongo.Collection
}

// Store talks to one database. A Store passed to a Transact callback carries
// the session context and uses it for every call.
type Store struct {
	client *mongo.Client
	c      collections
	sess   mongo.SessionContext
}

var _ store.Store = (*Store)(nil)

func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client: client,
		c: collections{
			services:     db.Collection("services"),
			inventory:    db.Collection("inventory"),
			customers:    db.Collection("customers"),
			transactions: db.Collection("loyalty_transactions"),
			bills:        db.Collection("bills"),
			tiers:        db.Collection("loyalty_tiers"),
			settings:     db.Collection("settings"),
			users:        db.Collection("users"),
			idempotency:  db.Collection("idempotency"),
		},
	}
}

// EnsureIndexes creates the secondary indexes lookups rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.c.bills.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "view_token", Value: 1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return fmt.Errorf("bills indexes: %w", err)
	}
	if _, err := s.c.transactions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("loyalty indexes: %w", err)
	}
	if _, err := s.c.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	return nil
}

func (s *Store) ctx(ctx context.Context) context.Context {
	if s.sess != nil {
		return s.sess
	}
	return ctx
}

func (s *Store) Transact(ctx context.Context, fn func(tx store.Tx) error) error {
	if s.sess != nil {
		return fn(s)
	}
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(&Store{client: s.client, c: s.c, sess: sc})
	})
	return err
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (T, error) {
	var out T
	err := coll.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, store.ErrNotFound
	}
	return out, err
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func upsert(ctx context.Context, coll *mongo.Collection, id string, doc interface{}) error {
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func insert(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	_, err := coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicate
	}
	return err
}

func byID() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

func (s *Store) ListServices(ctx context.Context) ([]models.ServiceItem, error) {
	return findAll[models.ServiceItem](s.ctx(ctx), s.c.services, bson.M{}, byID())
}

func (s *Store) GetService(ctx context.Context, id string) (models.ServiceItem, error) {
	return findOne[models.ServiceItem](s.ctx(ctx), s.c.services, bson.M{"_id": id})
}

func (s *Store) SaveService(ctx context.Context, v models.ServiceItem) error {
	return upsert(s.ctx(ctx), s.c.services, v.ID, v)
}

func (s *Store) ListInventory(ctx context.Context) ([]models.InventoryProduct, error) {
	return findAll[models.InventoryProduct](s.ctx(ctx), s.c.inventory, bson.M{}, byID())
}

func (s *Store) GetProduct(ctx context.Context, id string) (models.InventoryProduct, error) {
	return findOne[models.InventoryProduct](s.ctx(ctx), s.c.inventory, bson.M{"_id": id})
}

func (s *Store) SaveProduct(ctx context.Context, v models.InventoryProduct) error {
	return upsert(s.ctx(ctx), s.c.inventory, v.ID, v)
}

// AdjustStock uses an update pipeline so the floor at zero is applied on the
// server in the same write.
func (s *Store) AdjustStock(ctx context.Context, id string, delta int) (models.InventoryProduct, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "stock", Value: bson.D{{Key: "$max", Value: bson.A{0, bson.D{{Key: "$add", Value: bson.A{"$stock", delta}}}}}}},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	}
	var out models.InventoryProduct
	err := s.c.inventory.FindOneAndUpdate(s.ctx(ctx), bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, store.ErrNotFound
	}
	return out, err
}

func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return findAll[models.Customer](s.ctx(ctx), s.c.customers, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (s *Store) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	return findOne[models.Customer](s.ctx(ctx), s.c.customers, bson.M{"_id": id})
}

func (s *Store) SaveCustomer(ctx context.Context, v models.Customer) error {
	return upsert(s.ctx(ctx), s.c.customers, v.ID, v)
}

func (s *Store) AppendTransaction(ctx context.Context, e models.LoyaltyTransaction) error {
	return insert(s.ctx(ctx), s.c.transactions, e)
}

func (s *Store) ListTransactions(ctx context.Context, customerID string) ([]models.LoyaltyTransaction, error) {
	filter := bson.M{}
	if customerID != "" {
		filter["customer_id"] = customerID
	}
	return findAll[models.LoyaltyTransaction](s.ctx(ctx), s.c.transactions, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
}

func (s *Store) CreateBill(ctx context.Context, b models.Bill) error {
	return insert(s.ctx(ctx), s.c.bills, b)
}

func (s *Store) GetBill(ctx context.Context, id string) (models.Bill, error) {
	return findOne[models.Bill](s.ctx(ctx), s.c.bills, bson.M{"_id": id})
}

func (s *Store) GetBillByToken(ctx context.Context, token string) (models.Bill, error) {
	if token == "" {
		return models.Bill{}, store.ErrNotFound
	}
	return findOne[models.Bill](s.ctx(ctx), s.c.bills, bson.M{"view_token": token})
}

func (s *Store) ListBills(ctx context.Context, limit int) ([]models.Bill, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[models.Bill](s.ctx(ctx), s.c.bills, bson.M{}, opts)
}

func (s *Store) ListTiers(ctx context.Context) ([]models.LoyaltyTier, error) {
	return findAll[models.LoyaltyTier](s.ctx(ctx), s.c.tiers, bson.M{},
		options.Find().SetSort(bson.D{{Key: "min_spend", Value: 1}}))
}

func (s *Store) SaveTier(ctx context.Context, t models.LoyaltyTier) error {
	return upsert(s.ctx(ctx), s.c.tiers, t.ID, t)
}

type settingsDoc struct {
	ID              string `bson:"_id"`
	models.Settings `bson:",inline"`
}

func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	doc, err := findOne[settingsDoc](s.ctx(ctx), s.c.settings, bson.M{"_id": settingsID})
	if errors.Is(err, store.ErrNotFound) {
		return models.DefaultSettings(), nil
	}
	return doc.Settings, err
}

func (s *Store) SaveSettings(ctx context.Context, v models.Settings) error {
	return upsert(s.ctx(ctx), s.c.settings, settingsID, settingsDoc{ID: settingsID, Settings: v})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return findOne[models.User](s.ctx(ctx), s.c.users, bson.M{"email": strings.ToLower(email)})
}

func (s *Store) SaveUser(ctx context.Context, u models.User) error {
	u.Email = strings.ToLower(u.Email)
	return upsert(s.ctx(ctx), s.c.users, u.ID, u)
}

func (s *Store) LookupIdempotency(ctx context.Context, key string) (models.IdempotencyRecord, error) {
	return findOne[models.IdempotencyRecord](s.ctx(ctx), s.c.idempotency, bson.M{"_id": key})
}

func (s *Store) RecordIdempotency(ctx context.Context, rec models.IdempotencyRecord) error {
	return insert(s.ctx(ctx), s.c.idempotency, rec)
}
