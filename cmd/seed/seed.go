package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go-docflow/internal/database"
	"go-docflow/internal/features/directory"
	"go-docflow/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type SeedUser struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	BranchID   string `json:"branchId"`
	Department string `json:"department"`
}

type SeedWorkflow struct {
	DepartmentID string          `json:"departmentId"`
	Steps        []workflow.Step `json:"steps"`
}

// SeedFile is the organization reference data loaded by the seed command
type SeedFile struct {
	Branches    []directory.Branch     `json:"branches"`
	Departments []directory.Department `json:"departments"`
	Roles       []directory.Role       `json:"roles"`
	Users       []SeedUser             `json:"users"`
	Workflows   []SeedWorkflow         `json:"workflows"`
}

func LoadSeedFile(path string) (*SeedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f SeedFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return &f, nil
}

// Validate checks that every reference points at something declared in the file
func (f *SeedFile) Validate() error {
	branches := map[string]bool{}
	for _, b := range f.Branches {
		if b.ID == "" || b.Name == "" {
			return fmt.Errorf("branch needs id and name")
		}
		branches[b.ID] = true
	}

	departments := map[string]bool{}
	for _, d := range f.Departments {
		if !branches[d.BranchID] {
			return fmt.Errorf("department %q references unknown branch %q", d.ID, d.BranchID)
		}
		departments[d.ID] = true
	}

	for _, r := range f.Roles {
		if !branches[r.BranchID] {
			return fmt.Errorf("role %q references unknown branch %q", r.ID, r.BranchID)
		}
	}

	users := map[string]bool{}
	for _, u := range f.Users {
		if u.Username == "" || u.Password == "" {
			return fmt.Errorf("user needs username and password")
		}
		if !branches[u.BranchID] {
			return fmt.Errorf("user %q references unknown branch %q", u.Username, u.BranchID)
		}
		if u.Department != "" && !departments[u.Department] {
			return fmt.Errorf("user %q references unknown department %q", u.Username, u.Department)
		}
		users[u.Username] = true
	}

	for _, wf := range f.Workflows {
		if !departments[wf.DepartmentID] {
			return fmt.Errorf("workflow references unknown department %q", wf.DepartmentID)
		}
		if err := workflow.Validate(wf.Steps); err != nil {
			return fmt.Errorf("workflow for %q: %w", wf.DepartmentID, err)
		}
		for _, s := range wf.Steps {
			for _, su := range s.Users {
				if !users[su.User] {
					return fmt.Errorf("workflow for %q step %d names unknown user %q", wf.DepartmentID, s.Index, su.User)
				}
			}
		}
	}
	return nil
}

func hashUsers(users []SeedUser, cost int) ([]directory.User, error) {
	out := make([]directory.User, 0, len(users))
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", u.Username, err)
		}
		out = append(out, directory.User{
			Username:     u.Username,
			Role:         u.Role,
			BranchID:     u.BranchID,
			Department:   u.Department,
			PasswordHash: string(hash),
		})
	}
	return out, nil
}

type Seeder struct {
	DB        *database.MongodbDB
	Workflows workflow.WorkflowRepository
	Logger    *zap.Logger
}

func (s *Seeder) Run(ctx context.Context, f *SeedFile, drop bool) error {
	if drop {
		for _, name := range []string{
			directory.BranchesCollection,
			directory.DepartmentsCollection,
			directory.RolesCollection,
			directory.UsersCollection,
			workflow.CollectionName,
		} {
			if err := s.DB.DB.Collection(name).Drop(ctx); err != nil {
				return fmt.Errorf("drop %s: %w", name, err)
			}
			s.Logger.Info("Dropped collection", zap.String("collection", name))
		}
	}

	users, err := hashUsers(f.Users, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := upsertAll(ctx, s.DB.DB.Collection(directory.BranchesCollection), f.Branches, func(b directory.Branch) string { return b.ID }); err != nil {
		return err
	}
	if err := upsertAll(ctx, s.DB.DB.Collection(directory.DepartmentsCollection), f.Departments, func(d directory.Department) string { return d.ID }); err != nil {
		return err
	}
	if err := upsertAll(ctx, s.DB.DB.Collection(directory.RolesCollection), f.Roles, func(r directory.Role) string { return r.ID }); err != nil {
		return err
	}
	if err := upsertAll(ctx, s.DB.DB.Collection(directory.UsersCollection), users, func(u directory.User) string { return u.Username }); err != nil {
		return err
	}

	if err := s.Workflows.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("workflow indexes: %w", err)
	}
	for _, wf := range f.Workflows {
		saved, err := s.Workflows.Replace(ctx, wf.DepartmentID, wf.Steps, "seed")
		if err != nil {
			return fmt.Errorf("save workflow for %s: %w", wf.DepartmentID, err)
		}
		s.Logger.Info("Seeded workflow",
			zap.String("departmentId", wf.DepartmentID),
			zap.String("workflowId", saved.ID),
			zap.Int("version", saved.Version),
		)
	}

	s.Logger.Info("Seeding finished",
		zap.Int("branches", len(f.Branches)),
		zap.Int("departments", len(f.Departments)),
		zap.Int("roles", len(f.Roles)),
		zap.Int("users", len(users)),
		zap.Int("workflows", len(f.Workflows)),
	)
	return nil
}

func upsertAll[T any](ctx context.Context, coll *mongo.Collection, docs []T, id func(T) string) error {
	if len(docs) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(docs))
	for _, d := range docs {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": id(d)}).
			SetReplacement(d).
			SetUpsert(true))
	}
	if _, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("seed %s: %w", coll.Name(), err)
	}
	return nil
}
