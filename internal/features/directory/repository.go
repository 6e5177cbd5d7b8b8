package directory

import (
	"context"

	"go-docflow/internal/database"
	"go-docflow/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BranchesCollection    = "branches"
	DepartmentsCollection = "departments"
	RolesCollection       = "roles"
	UsersCollection       = "users"
)

type DirectoryRepository interface {
	FindBranches(ctx context.Context) ([]Branch, error)
	FindDepartments(ctx context.Context) ([]Department, error)
	FindWorkflowRefs(ctx context.Context) ([]WorkflowRef, error)
	FindRoles(ctx context.Context, branchID string) ([]Role, error)
	FindUser(ctx context.Context, username string) (*User, error)
}

type DirectoryRepositoryImpl struct {
	Branches    *mongo.Collection
	Departments *mongo.Collection
	Roles       *mongo.Collection
	Users       *mongo.Collection
	Workflows   *mongo.Collection
}

func NewDirectoryRepository(mongodb *database.MongodbDB) DirectoryRepository {
	return &DirectoryRepositoryImpl{
		Branches:    mongodb.DB.Collection(BranchesCollection),
		Departments: mongodb.DB.Collection(DepartmentsCollection),
		Roles:       mongodb.DB.Collection(RolesCollection),
		Users:       mongodb.DB.Collection(UsersCollection),
		Workflows:   mongodb.DB.Collection(workflow.CollectionName),
	}
}

func (r *DirectoryRepositoryImpl) FindBranches(ctx context.Context) ([]Branch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.Branches.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var branches []Branch
	if err := cursor.All(ctx, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

func (r *DirectoryRepositoryImpl) FindDepartments(ctx context.Context) ([]Department, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.Departments.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var departments []Department
	if err := cursor.All(ctx, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

// FindWorkflowRefs reads only the department link and step count of each workflow
func (r *DirectoryRepositoryImpl) FindWorkflowRefs(ctx context.Context) ([]WorkflowRef, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"department_id": 1,
			"step_count":    bson.M{"$size": bson.M{"$ifNull": bson.A{"$steps", bson.A{}}}},
		}}},
	}
	cursor, err := r.Workflows.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var refs []WorkflowRef
	if err := cursor.All(ctx, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *DirectoryRepositoryImpl) FindRoles(ctx context.Context, branchID string) ([]Role, error) {
	filter := bson.M{}
	if branchID != "" {
		filter["branch_id"] = branchID
	}
	cursor, err := r.Roles.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *DirectoryRepositoryImpl) FindUser(ctx context.Context, username string) (*User, error) {
	var user User
	if err := r.Users.FindOne(ctx, bson.M{"_id": username}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
