package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type groupDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	AdminID   string        `bson:"admin_id"`
	Members   []string      `bson:"members"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

func (d groupDocument) entity() chat.Group {
	members := d.Members
	if members == nil {
		members = []string{}
	}
	return chat.Group{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		AdminID:   d.AdminID,
		Members:   members,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type groupRepositoryImpl struct {
	coll *mongo.Collection
}

func NewGroupRepository(db *database.MongoDB) chat.GroupRepository {
	return &groupRepositoryImpl{coll: db.Collection(collGroups)}
}

func (r *groupRepositoryImpl) Create(ctx context.Context, g chat.Group) (chat.Group, error) {
	now := time.Now()
	members := g.Members
	if members == nil {
		members = []string{}
	}
	doc := groupDocument{
		ID:        bson.NewObjectID(),
		Name:      g.Name,
		AdminID:   g.AdminID,
		Members:   members,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return chat.Group{}, chat.ErrGroupExists
		}
		return chat.Group{}, fmt.Errorf("insert group: %w", err)
	}
	return doc.entity(), nil
}

func (r *groupRepositoryImpl) GetByID(ctx context.Context, id string) (chat.Group, error) {
	oid, ok := objectID(id)
	if !ok {
		return chat.Group{}, chat.ErrGroupNotFound
	}
	var doc groupDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if isNoDocuments(err) {
		return chat.Group{}, chat.ErrGroupNotFound
	}
	if err != nil {
		return chat.Group{}, fmt.Errorf("find group: %w", err)
	}
	return doc.entity(), nil
}

func (r *groupRepositoryImpl) ListForUser(ctx context.Context, userID string) ([]chat.Group, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"$or": bson.A{bson.M{"admin_id": userID}, bson.M{"members": userID}}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find groups: %w", err)
	}
	var docs []groupDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}

	groups := make([]chat.Group, 0, len(docs))
	for _, d := range docs {
		groups = append(groups, d.entity())
	}
	return groups, nil
}

func (r *groupRepositoryImpl) Rename(ctx context.Context, id, name string) error {
	oid, ok := objectID(id)
	if !ok {
		return chat.ErrGroupNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"name": name, "updated_at": time.Now()}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return chat.ErrGroupExists
		}
		return fmt.Errorf("rename group: %w", err)
	}
	if res.MatchedCount == 0 {
		return chat.ErrGroupNotFound
	}
	return nil
}

func (r *groupRepositoryImpl) AddMember(ctx context.Context, id, userID string) error {
	oid, ok := objectID(id)
	if !ok {
		return chat.ErrGroupNotFound
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "admin_id": bson.M{"$ne": userID}, "members": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"members": userID}, "$set": bson.M{"updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("add group member: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return chat.ErrAlreadyMember
}

func (r *groupRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return chat.ErrGroupNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if res.DeletedCount == 0 {
		return chat.ErrGroupNotFound
	}
	return nil
}

type messageDocument struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	GroupID    string        `bson:"group_id"`
	SenderID   string        `bson:"sender_id"`
	SenderName string        `bson:"sender_name"`
	Content    string        `bson:"content"`
	File       string        `bson:"file,omitempty"`
	TempID     string        `bson:"temp_id,omitempty"`
	Timestamp  time.Time     `bson:"timestamp"`
	SeenBy     []string      `bson:"seen_by"`
}

func (d messageDocument) entity() chat.Message {
	seen := d.SeenBy
	if seen == nil {
		seen = []string{}
	}
	return chat.Message{
		ID:        d.ID.Hex(),
		GroupID:   d.GroupID,
		Sender:    chat.Sender{ID: d.SenderID, Name: d.SenderName},
		Content:   d.Content,
		File:      d.File,
		TempID:    d.TempID,
		Timestamp: d.Timestamp,
		SeenBy:    seen,
	}
}

type messageRepositoryImpl struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *database.MongoDB) chat.MessageRepository {
	return &messageRepositoryImpl{coll: db.Collection(collMessages)}
}

func (r *messageRepositoryImpl) Create(ctx context.Context, m chat.Message) (chat.Message, error) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	seen := m.SeenBy
	if seen == nil {
		seen = []string{}
	}
	doc := messageDocument{
		ID:         bson.NewObjectID(),
		GroupID:    m.GroupID,
		SenderID:   m.Sender.ID,
		SenderName: m.Sender.Name,
		Content:    m.Content,
		File:       m.File,
		TempID:     m.TempID,
		Timestamp:  m.Timestamp,
		SeenBy:     seen,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return chat.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return doc.entity(), nil
}

func (r *messageRepositoryImpl) ListByGroup(ctx context.Context, groupID string) ([]chat.Message, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"group_id": groupID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	messages := make([]chat.Message, 0, len(docs))
	for _, d := range docs {
		messages = append(messages, d.entity())
	}
	return messages, nil
}

func (r *messageRepositoryImpl) MarkSeen(ctx context.Context, groupID, userID string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"group_id": groupID, "seen_by": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"seen_by": userID}},
	)
	if err != nil {
		return fmt.Errorf("mark messages seen: %w", err)
	}
	return nil
}

func (r *messageRepositoryImpl) DeleteByGroup(ctx context.Context, groupID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"group_id": groupID}); err != nil {
		return fmt.Errorf("delete group messages: %w", err)
	}
	return nil
}
