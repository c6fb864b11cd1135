package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type pushDocument struct {
	Endpoint string `bson:"endpoint"`
	P256dh   string `bson:"p256dh"`
	Auth     string `bson:"auth"`
}

type userDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Name         string        `bson:"name"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password_hash"`
	Push         *pushDocument `bson:"push_subscription,omitempty"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

func newPushDocument(sub *user.PushSubscription) *pushDocument {
	if sub == nil {
		return nil
	}
	return &pushDocument{Endpoint: sub.Endpoint, P256dh: sub.Keys.P256dh, Auth: sub.Keys.Auth}
}

func (d userDocument) entity() user.User {
	u := user.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Push != nil {
		u.Push = &user.PushSubscription{Endpoint: d.Push.Endpoint}
		u.Push.Keys.P256dh = d.Push.P256dh
		u.Push.Keys.Auth = d.Push.Auth
	}
	return u
}

type userRepositoryImpl struct {
	coll *mongo.Collection
}

func NewUserRepository(db *database.MongoDB) user.UserRepository {
	return &userRepositoryImpl{coll: db.Collection(collUsers)}
}

func (r *userRepositoryImpl) Create(ctx context.Context, u user.User) (user.User, error) {
	now := time.Now()
	doc := userDocument{
		ID:           bson.NewObjectID(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Push:         newPushDocument(u.Push),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return doc.entity(), nil
}

func (r *userRepositoryImpl) findOne(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOneOptions]) (user.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc)
	if isNoDocuments(err) {
		return user.User{}, user.ErrUserNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("find user: %w", err)
	}
	return doc.entity(), nil
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne().SetCollation(caseInsensitive))
}

func (r *userRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []user.User{}, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]user.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.entity())
	}
	return users, nil
}

func (r *userRepositoryImpl) UpdatePushSubscription(ctx context.Context, id string, sub *user.PushSubscription) error {
	oid, ok := objectID(id)
	if !ok {
		return user.ErrUserNotFound
	}
	update := bson.M{"$set": bson.M{"push_subscription": newPushDocument(sub), "updated_at": time.Now()}}
	if sub == nil {
		update = bson.M{"$unset": bson.M{"push_subscription": ""}, "$set": bson.M{"updated_at": time.Now()}}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update push subscription: %w", err)
	}
	if res.MatchedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
