package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type attendanceDocument struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	EmployeeID string        `bson:"employee_id"`
	BadgeID    string        `bson:"badge_id"`
	Date       string        `bson:"date"` // YYYY-MM-DD
	CheckIn    *time.Time    `bson:"check_in,omitempty"`
	CheckOut   *time.Time    `bson:"check_out,omitempty"`
	Status     string        `bson:"status"`
	WasLate    bool          `bson:"was_late"`
	CreatedAt  time.Time     `bson:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at"`
}

func (d attendanceDocument) entity() attendance.Attendance {
	return attendance.Attendance{
		ID:         d.ID.Hex(),
		EmployeeID: d.EmployeeID,
		BadgeID:    d.BadgeID,
		Date:       d.Date,
		CheckIn:    d.CheckIn,
		CheckOut:   d.CheckOut,
		Status:     d.Status,
		WasLate:    d.WasLate,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type attendanceRepositoryImpl struct {
	coll *mongo.Collection
}

func NewAttendanceRepository(db *database.MongoDB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{coll: db.Collection(collAttendance)}
}

func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	now := time.Now()
	doc := attendanceDocument{
		ID:         bson.NewObjectID(),
		EmployeeID: a.EmployeeID,
		BadgeID:    a.BadgeID,
		Date:       a.Date,
		CheckIn:    a.CheckIn,
		CheckOut:   a.CheckOut,
		Status:     a.Status,
		WasLate:    a.WasLate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("insert attendance: %w", err)
	}
	return doc.entity(), nil
}

func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) error {
	oid, ok := objectID(a.ID)
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"check_in":   a.CheckIn,
		"check_out":  a.CheckOut,
		"status":     a.Status,
		"was_late":   a.WasLate,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	if res.MatchedCount == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepositoryImpl) GetByBadgeAndDate(ctx context.Context, badgeID, date string) (attendance.Attendance, error) {
	var doc attendanceDocument
	err := r.coll.FindOne(ctx, bson.M{"badge_id": badgeID, "date": date}).Decode(&doc)
	if isNoDocuments(err) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("find attendance: %w", err)
	}
	return doc.entity(), nil
}

func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	query := bson.M{}
	dateRange := bson.M{}
	if filter.From != "" {
		dateRange["$gte"] = filter.From
	}
	if filter.To != "" {
		dateRange["$lte"] = filter.To
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	if filter.BadgeID != "" {
		query["badge_id"] = filter.BadgeID
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	var docs []attendanceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}

	records := make([]attendance.Attendance, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.entity())
	}
	return records, nil
}
