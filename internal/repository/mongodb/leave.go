package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type leaveDocument struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	EmployeeID string        `bson:"employee_id"`
	Type       string        `bson:"leave_type"`
	From       *time.Time    `bson:"from,omitempty"`
	To         *time.Time    `bson:"to,omitempty"`
	// End is To, or From for single-day leaves, so overlap queries need one field.
	End       *time.Time `bson:"end,omitempty"`
	Reason    string     `bson:"reason"`
	Status    string     `bson:"status"`
	CreatedAt time.Time  `bson:"created_at"`
	DecidedAt *time.Time `bson:"decided_at,omitempty"`
	DecidedBy string     `bson:"decided_by,omitempty"`
}

func (d leaveDocument) entity() leave.Leave {
	return leave.Leave{
		ID:         d.ID.Hex(),
		EmployeeID: d.EmployeeID,
		Type:       leave.Type(d.Type),
		From:       d.From,
		To:         d.To,
		Reason:     d.Reason,
		Status:     leave.Status(d.Status),
		CreatedAt:  d.CreatedAt,
		DecidedAt:  d.DecidedAt,
		DecidedBy:  d.DecidedBy,
	}
}

type leaveRepositoryImpl struct {
	coll *mongo.Collection
}

func NewLeaveRepository(db *database.MongoDB) leave.LeaveRepository {
	return &leaveRepositoryImpl{coll: db.Collection(collLeaves)}
}

func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	doc := leaveDocument{
		ID:         bson.NewObjectID(),
		EmployeeID: l.EmployeeID,
		Type:       string(l.Type),
		From:       l.From,
		To:         l.To,
		End:        l.End(),
		Reason:     l.Reason,
		Status:     string(l.Status),
		CreatedAt:  l.CreatedAt,
		DecidedAt:  l.DecidedAt,
		DecidedBy:  l.DecidedBy,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return leave.Leave{}, fmt.Errorf("insert leave: %w", err)
	}
	return doc.entity(), nil
}

func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	oid, ok := objectID(id)
	if !ok {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	var doc leaveDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if isNoDocuments(err) {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	if err != nil {
		return leave.Leave{}, fmt.Errorf("find leave: %w", err)
	}
	return doc.entity(), nil
}

func leaveQuery(f leave.Filter) bson.M {
	query := bson.M{}
	if f.EmployeeID != "" {
		query["employee_id"] = f.EmployeeID
	}
	if f.Status != "" {
		query["status"] = string(f.Status)
	}
	if f.From != nil && f.To != nil {
		query["from"] = bson.M{"$lte": *f.To}
		query["end"] = bson.M{"$gte": *f.From}
	}
	created := bson.M{}
	if f.CreatedFrom != nil {
		created["$gte"] = *f.CreatedFrom
	}
	if f.CreatedTo != nil {
		created["$lte"] = *f.CreatedTo
	}
	if len(created) > 0 {
		query["created_at"] = created
	}
	return query
}

func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.Filter) ([]leave.Leave, error) {
	cursor, err := r.coll.Find(ctx, leaveQuery(filter), options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find leaves: %w", err)
	}
	var docs []leaveDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leaves: %w", err)
	}

	leaves := make([]leave.Leave, 0, len(docs))
	for _, d := range docs {
		leaves = append(leaves, d.entity())
	}
	return leaves, nil
}

func (r *leaveRepositoryImpl) UpdateDecision(ctx context.Context, id string, d leave.Decision) error {
	oid, ok := objectID(id)
	if !ok {
		return leave.ErrLeaveNotFound
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(leave.StatusPending)},
		bson.M{"$set": bson.M{
			"status":     string(d.Status),
			"decided_at": d.DecidedAt,
			"decided_by": d.DecidedBy,
		}},
	)
	if err != nil {
		return fmt.Errorf("update leave decision: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return leave.ErrLeaveAlreadyDecided
}
