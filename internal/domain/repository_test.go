package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// stubCollection satisfies every repository's collection interface and records
// the arguments of the last call.
type stubCollection struct {
	findOneResult *mongo.SingleResult
	findDocs      []interface{}
	findErr       error
	insertResult  *mongo.InsertOneResult
	insertErr     error
	updateResult  *mongo.UpdateResult
	updateErr     error
	deleteResult  *mongo.DeleteResult
	deleteErr     error

	lastFilter       interface{}
	lastUpdate       interface{}
	lastDocument     interface{}
	lastUpdateOpts   []*options.UpdateOptions
	deleteManyCalled bool
}

func (s *stubCollection) FindOne(_ context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	s.lastFilter = filter
	return s.findOneResult
}

func (s *stubCollection) Find(_ context.Context, filter interface{}, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	s.lastFilter = filter
	if s.findErr != nil {
		return nil, s.findErr
	}
	return mongo.NewCursorFromDocuments(s.findDocs, nil, nil)
}

func (s *stubCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	s.lastDocument = document
	return s.insertResult, s.insertErr
}

func (s *stubCollection) UpdateOne(_ context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	s.lastFilter = filter
	s.lastUpdate = update
	s.lastUpdateOpts = opts
	return s.updateResult, s.updateErr
}

func (s *stubCollection) DeleteOne(_ context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	s.lastFilter = filter
	return s.deleteResult, s.deleteErr
}

func (s *stubCollection) DeleteMany(_ context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	s.lastFilter = filter
	s.deleteManyCalled = true
	return s.deleteResult, s.deleteErr
}

func TestUserEnsureCreatesWithDefaultRole(t *testing.T) {
	insertedID := primitive.NewObjectID()
	coll := &stubCollection{
		updateResult: &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: insertedID},
	}
	repo := NewUserRepository(coll)

	created, id, err := repo.Ensure(context.Background(), "guest@bistro.test", "Guest")
	if err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	if !created {
		t.Fatal("created = false, want true for an upserted record")
	}
	if id != insertedID {
		t.Fatalf("id = %s, want %s", id.Hex(), insertedID.Hex())
	}

	update, ok := coll.lastUpdate.(bson.M)
	if !ok {
		t.Fatalf("update has type %T, want bson.M", coll.lastUpdate)
	}
	onInsert, ok := update["$setOnInsert"].(bson.M)
	if !ok {
		t.Fatalf("$setOnInsert missing from update: %v", update)
	}
	if onInsert["role"] != RoleUser {
		t.Fatalf("default role = %v, want %s", onInsert["role"], RoleUser)
	}

	if len(coll.lastUpdateOpts) == 0 || coll.lastUpdateOpts[0].Upsert == nil || !*coll.lastUpdateOpts[0].Upsert {
		t.Fatal("Ensure did not request an upsert")
	}
}

func TestUserEnsureExisting(t *testing.T) {
	coll := &stubCollection{updateResult: &mongo.UpdateResult{MatchedCount: 1}}
	repo := NewUserRepository(coll)

	created, id, err := repo.Ensure(context.Background(), "guest@bistro.test", "Guest")
	if err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	if created {
		t.Fatal("created = true, want false for an existing record")
	}
	if id != primitive.NilObjectID {
		t.Fatalf("id = %s, want nil ObjectID", id.Hex())
	}
}

func TestUserEnsureRequiresEmail(t *testing.T) {
	repo := NewUserRepository(&stubCollection{})

	if _, _, err := repo.Ensure(context.Background(), "", "Guest"); err == nil {
		t.Fatal("expected error for empty email")
	}
}

func TestUserGetByEmail(t *testing.T) {
	coll := &stubCollection{
		findOneResult: mongo.NewSingleResultFromDocument(
			User{Email: "admin@bistro.test", Role: RoleAdmin}, nil, nil),
	}
	repo := NewUserRepository(coll)

	user, err := repo.GetByEmail(context.Background(), "admin@bistro.test")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if user.Role != RoleAdmin {
		t.Fatalf("role = %s, want %s", user.Role, RoleAdmin)
	}
}

func TestUserGetByEmailAbsent(t *testing.T) {
	coll := &stubCollection{
		findOneResult: mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil),
	}
	repo := NewUserRepository(coll)

	if _, err := repo.GetByEmail(context.Background(), "nobody@bistro.test"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUserPromoteAdmin(t *testing.T) {
	coll := &stubCollection{updateResult: &mongo.UpdateResult{ModifiedCount: 1}}
	repo := NewUserRepository(coll)

	modified, err := repo.PromoteAdmin(context.Background(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("PromoteAdmin returned error: %v", err)
	}
	if modified != 1 {
		t.Fatalf("modified = %d, want 1", modified)
	}

	update, ok := coll.lastUpdate.(bson.M)
	if !ok {
		t.Fatalf("update has type %T, want bson.M", coll.lastUpdate)
	}
	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("$set missing from update: %v", update)
	}
	if set["role"] != RoleAdmin {
		t.Fatalf("role = %v, want %s", set["role"], RoleAdmin)
	}
}

func TestUserListDecodes(t *testing.T) {
	coll := &stubCollection{findDocs: []interface{}{
		User{Email: "a@bistro.test", Role: RoleUser},
		User{Email: "b@bistro.test", Role: RoleAdmin},
	}}
	repo := NewUserRepository(coll)

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 2 || users[1].Role != RoleAdmin {
		t.Fatalf("users = %+v", users)
	}
}

func TestMenuGetAbsent(t *testing.T) {
	coll := &stubCollection{
		findOneResult: mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil),
	}
	repo := NewMenuRepository(coll)

	if _, err := repo.Get(context.Background(), primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMenuInsertReturnsID(t *testing.T) {
	insertedID := primitive.NewObjectID()
	coll := &stubCollection{insertResult: &mongo.InsertOneResult{InsertedID: insertedID}}
	repo := NewMenuRepository(coll)

	id, err := repo.Insert(context.Background(), MenuItem{Name: "Espresso", Category: "drinks", Price: 2.5})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if id != insertedID {
		t.Fatalf("id = %s, want %s", id.Hex(), insertedID.Hex())
	}
}

func TestMenuInsertRequiresName(t *testing.T) {
	repo := NewMenuRepository(&stubCollection{})

	if _, err := repo.Insert(context.Background(), MenuItem{Price: 2.5}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestMenuUpdateSetsMutableFields(t *testing.T) {
	coll := &stubCollection{updateResult: &mongo.UpdateResult{ModifiedCount: 1}}
	repo := NewMenuRepository(coll)

	modified, err := repo.Update(context.Background(), primitive.NewObjectID(), MenuItem{
		Name: "Flat White", Category: "drinks", Price: 3.5,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if modified != 1 {
		t.Fatalf("modified = %d, want 1", modified)
	}

	update := coll.lastUpdate.(bson.M)
	set := update["$set"].(bson.M)
	if set["name"] != "Flat White" || set["price"] != 3.5 {
		t.Fatalf("$set = %v", set)
	}
}

func TestCartListFiltersByEmail(t *testing.T) {
	coll := &stubCollection{findDocs: []interface{}{
		CartItem{Email: "guest@bistro.test", Name: "Espresso", Price: 2.5},
	}}
	repo := NewCartRepository(coll)

	items, err := repo.ListByEmail(context.Background(), "guest@bistro.test")
	if err != nil {
		t.Fatalf("ListByEmail returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	filter := coll.lastFilter.(bson.M)
	if filter["email"] != "guest@bistro.test" {
		t.Fatalf("filter = %v", filter)
	}
}

func TestCartInsertRequiresEmail(t *testing.T) {
	repo := NewCartRepository(&stubCollection{})

	if _, err := repo.Insert(context.Background(), CartItem{Name: "Espresso"}); err == nil {
		t.Fatal("expected error for empty email")
	}
}

func TestCartDeleteManySkipsEmptyInput(t *testing.T) {
	coll := &stubCollection{}
	repo := NewCartRepository(coll)

	deleted, err := repo.DeleteMany(context.Background(), nil)
	if err != nil {
		t.Fatalf("DeleteMany returned error: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("deleted = %d, want 0", deleted)
	}
	if coll.deleteManyCalled {
		t.Fatal("DeleteMany hit the collection for an empty id list")
	}
}

func TestCartDeleteManyUsesInFilter(t *testing.T) {
	coll := &stubCollection{deleteResult: &mongo.DeleteResult{DeletedCount: 2}}
	repo := NewCartRepository(coll)

	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	deleted, err := repo.DeleteMany(context.Background(), ids)
	if err != nil {
		t.Fatalf("DeleteMany returned error: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}

	filter := coll.lastFilter.(bson.M)
	inner, ok := filter["_id"].(bson.M)
	if !ok || inner["$in"] == nil {
		t.Fatalf("filter = %v, want _id $in", filter)
	}
}

func TestReviewListDecodes(t *testing.T) {
	coll := &stubCollection{findDocs: []interface{}{
		Review{Name: "Ada", Details: "great tiramisu", Rating: 5},
	}}
	repo := NewReviewRepository(coll)

	reviews, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Rating != 5 {
		t.Fatalf("reviews = %+v", reviews)
	}
}

func TestPaymentInsertStampsDate(t *testing.T) {
	coll := &stubCollection{insertResult: &mongo.InsertOneResult{InsertedID: primitive.NewObjectID()}}
	repo := NewPaymentRepository(coll)

	before := time.Now().UTC()
	if _, err := repo.Insert(context.Background(), Payment{Email: "guest@bistro.test", TransactionID: "txn_1"}); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	stored, ok := coll.lastDocument.(Payment)
	if !ok {
		t.Fatalf("document has type %T, want Payment", coll.lastDocument)
	}
	if stored.Date.IsZero() || stored.Date.Before(before.Truncate(time.Second)) {
		t.Fatalf("date was not stamped: %v", stored.Date)
	}
}

func TestPaymentInsertKeepsProvidedDate(t *testing.T) {
	coll := &stubCollection{insertResult: &mongo.InsertOneResult{InsertedID: primitive.NewObjectID()}}
	repo := NewPaymentRepository(coll)

	date := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if _, err := repo.Insert(context.Background(), Payment{Email: "guest@bistro.test", Date: date}); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	stored := coll.lastDocument.(Payment)
	if !stored.Date.Equal(date) {
		t.Fatalf("date = %v, want %v", stored.Date, date)
	}
}

func TestPaymentListRequiresEmail(t *testing.T) {
	repo := NewPaymentRepository(&stubCollection{})

	if _, err := repo.ListByEmail(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty email")
	}
}

func TestParseRole(t *testing.T) {
	if role, err := ParseRole("admin"); err != nil || role != RoleAdmin {
		t.Fatalf("ParseRole(admin) = %v, %v", role, err)
	}
	if role, err := ParseRole("user"); err != nil || role != RoleUser {
		t.Fatalf("ParseRole(user) = %v, %v", role, err)
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
