package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

const (
	collEmployees  = "employees"
	collAttendance = "attendance"
	collLeaves     = "leaves"
	collUsers      = "users"
	collGroups     = "groups"
	collMessages   = "messages"
)

// caseInsensitive makes unique indexes and lookups ignore letter case.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// EnsureIndexes creates every index the repositories rely on.
func EnsureIndexes(ctx context.Context, db *database.MongoDB) error {
	indexes := map[string][]mongo.IndexModel{
		collEmployees: {
			{Keys: bson.D{{Key: "badge_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetCollation(caseInsensitive)},
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		collAttendance: {
			{Keys: bson.D{{Key: "badge_id", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
		collLeaves: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "from", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "from", Value: 1}, {Key: "end", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetCollation(caseInsensitive)},
		},
		collGroups: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true).SetCollation(caseInsensitive)},
			{Keys: bson.D{{Key: "members", Value: 1}}},
		},
		collMessages: {
			{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

// Transactor runs a unit of work inside a MongoDB session transaction.
// Transactions need a replica set or sharded cluster.
type Transactor struct {
	db *database.MongoDB
}

func NewTransactor(db *database.MongoDB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	sess, err := t.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}

var _ database.Transactor = (*Transactor)(nil)

// objectID parses a hex id. Malformed ids can never match a document.
func objectID(id string) (bson.ObjectID, bool) {
	oid, err := bson.ObjectIDFromHex(id)
	return oid, err == nil
}

func objectIDs(ids []string) []bson.ObjectID {
	out := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			out = append(out, oid)
		}
	}
	return out
}

func containsPattern(search string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
