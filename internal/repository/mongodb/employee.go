package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type employeeDocument struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	BadgeID       string        `bson:"badge_id"`
	Name          string        `bson:"name"`
	Email         string        `bson:"email"`
	EmployeeCode  string        `bson:"employee_code"`
	Designation   string        `bson:"designation"`
	Department    string        `bson:"department"`
	Mobile        string        `bson:"mobile"`
	Gender        string        `bson:"gender"`
	MaritalStatus string        `bson:"marital_status"`
	DateOfBirth   time.Time     `bson:"date_of_birth"`
	JoiningDate   time.Time     `bson:"joining_date"`
	Address       string        `bson:"address"`
	PhotoURL      string        `bson:"photo_url"`
	SickLeave     int           `bson:"sick_leave"`
	PersonalLeave int           `bson:"personal_leave"`
	CreatedAt     time.Time     `bson:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at"`
}

func newEmployeeDocument(e employee.Employee) employeeDocument {
	oid, _ := objectID(e.ID)
	return employeeDocument{
		ID: oid, BadgeID: e.BadgeID, Name: e.Name, Email: e.Email, EmployeeCode: e.EmployeeCode,
		Designation: e.Designation, Department: e.Department, Mobile: e.Mobile, Gender: e.Gender,
		MaritalStatus: e.MaritalStatus, DateOfBirth: e.DateOfBirth, JoiningDate: e.JoiningDate,
		Address: e.Address, PhotoURL: e.PhotoURL, SickLeave: e.SickLeave, PersonalLeave: e.PersonalLeave,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

func (d employeeDocument) entity() employee.Employee {
	return employee.Employee{
		ID: d.ID.Hex(), BadgeID: d.BadgeID, Name: d.Name, Email: d.Email, EmployeeCode: d.EmployeeCode,
		Designation: d.Designation, Department: d.Department, Mobile: d.Mobile, Gender: d.Gender,
		MaritalStatus: d.MaritalStatus, DateOfBirth: d.DateOfBirth, JoiningDate: d.JoiningDate,
		Address: d.Address, PhotoURL: d.PhotoURL, SickLeave: d.SickLeave, PersonalLeave: d.PersonalLeave,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type employeeRepositoryImpl struct {
	coll *mongo.Collection
}

func NewEmployeeRepository(db *database.MongoDB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{coll: db.Collection(collEmployees)}
}

// duplicateField tells which unique index a duplicate-key error came from.
func duplicateField(err error) error {
	if strings.Contains(err.Error(), "badge_id") {
		return employee.ErrBadgeExists
	}
	return employee.ErrEmailExists
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	now := time.Now()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	doc := newEmployeeDocument(newEmployee)
	doc.ID = bson.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return employee.Employee{}, duplicateField(err)
		}
		return employee.Employee{}, fmt.Errorf("insert employee: %w", err)
	}
	return doc.entity(), nil
}

func (r *employeeRepositoryImpl) findOne(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOneOptions]) (employee.Employee, error) {
	var doc employeeDocument
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc)
	if isNoDocuments(err) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if err != nil {
		return employee.Employee{}, fmt.Errorf("find employee: %w", err)
	}
	return doc.entity(), nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	oid, ok := objectID(id)
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *employeeRepositoryImpl) GetByBadge(ctx context.Context, badgeID string) (employee.Employee, error) {
	return r.findOne(ctx, bson.M{"badge_id": badgeID})
}

func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne().SetCollation(caseInsensitive))
}

func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.Filter) ([]employee.Employee, error) {
	query := bson.M{}
	if filter.Department != "" {
		query["department"] = bson.Regex{Pattern: "^" + containsPattern(filter.Department).Pattern + "$", Options: "i"}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := containsPattern(search)
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
			bson.M{"badge_id": pattern},
			bson.M{"employee_code": pattern},
		}
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}
	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}

	employees := make([]employee.Employee, 0, len(docs))
	for _, d := range docs {
		employees = append(employees, d.entity())
	}
	return employees, nil
}

func (r *employeeRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) error {
	oid, ok := objectID(e.ID)
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	doc := newEmployeeDocument(e)
	doc.UpdatedAt = time.Now()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"badge_id": doc.BadgeID, "name": doc.Name, "email": doc.Email, "employee_code": doc.EmployeeCode,
		"designation": doc.Designation, "department": doc.Department, "mobile": doc.Mobile,
		"gender": doc.Gender, "marital_status": doc.MaritalStatus, "date_of_birth": doc.DateOfBirth,
		"joining_date": doc.JoiningDate, "address": doc.Address, "photo_url": doc.PhotoURL,
		"sick_leave": doc.SickLeave, "personal_leave": doc.PersonalLeave, "updated_at": doc.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateField(err)
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if res.MatchedCount == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if res.DeletedCount == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepositoryImpl) ExistsByBadgeOrEmail(ctx context.Context, badgeID, email, excludeID string) (bool, bool, error) {
	exclude := bson.M{}
	if oid, ok := objectID(excludeID); ok {
		exclude["_id"] = bson.M{"$ne": oid}
	}

	count := func(field, value string) (bool, error) {
		if value == "" {
			return false, nil
		}
		filter := bson.M{field: value}
		for k, v := range exclude {
			filter[k] = v
		}
		n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetCollation(caseInsensitive).SetLimit(1))
		return n > 0, err
	}

	badgeTaken, err := count("badge_id", badgeID)
	if err != nil {
		return false, false, fmt.Errorf("count badge: %w", err)
	}
	emailTaken, err := count("email", email)
	if err != nil {
		return false, false, fmt.Errorf("count email: %w", err)
	}
	return badgeTaken, emailTaken, nil
}

func (r *employeeRepositoryImpl) DeductQuota(ctx context.Context, id string, d employee.QuotaDeduction) error {
	oid, ok := objectID(id)
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	decrement := func(field string, by int) bson.M {
		return bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$" + field, by}}}}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "sick_leave", Value: decrement("sick_leave", d.Sick)},
			{Key: "personal_leave", Value: decrement("personal_leave", d.Personal)},
			{Key: "updated_at", Value: time.Now()},
		}}},
	})
	if err != nil {
		return fmt.Errorf("deduct quota: %w", err)
	}
	if res.MatchedCount == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
