package mongostore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/mongostore"
)

type MongoStoreTestSuite struct {
	suite.Suite
	db       *mongostore.DB
	tasks    *mongostore.TaskRepository
	activity *mongostore.ActivityLogRepository
}

func (s *MongoStoreTestSuite) SetupSuite() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		s.T().Skip("MONGO_URI not set")
	}

	ctx := context.Background()
	db, err := mongostore.ConnectURI(ctx, uri, "taskflow_test")
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(mongostore.EnsureIndexes(ctx, db.Database()))
	s.Require().NoError(mongostore.EnsureIndexes(ctx, db.Database()), "index creation is idempotent")

	s.tasks = mongostore.NewTaskRepository(db.Database())
	s.activity = mongostore.NewActivityLogRepository(db.Database())
}

func (s *MongoStoreTestSuite) SetupTest() {
	ctx := context.Background()
	for _, name := range []string{mongostore.TasksCollection, mongostore.ActivityLogCollection} {
		_, err := s.db.Database().Collection(name).DeleteMany(ctx, bson.D{})
		s.Require().NoError(err)
	}
}

func (s *MongoStoreTestSuite) TearDownSuite() {
	if s.db == nil {
		return
	}
	ctx := context.Background()
	_ = s.db.Database().Drop(ctx)
	_ = s.db.Close(ctx)
}

func TestMongoStoreSuite(t *testing.T) {
	suite.Run(t, new(MongoStoreTestSuite))
}

func (s *MongoStoreTestSuite) insert(title, assignee string, at time.Time) string {
	id, err := s.tasks.Insert(context.Background(), &domain.Task{
		Title:       title,
		Description: "x",
		Status:      domain.TaskStatusPending,
		Priority:    domain.DefaultPriority,
		AssignedTo:  assignee,
		CreatedAt:   at,
		UpdatedAt:   at,
	})
	s.Require().NoError(err)
	s.Require().Len(id, 24)
	return id
}

func (s *MongoStoreTestSuite) TestInsertAndFindAll() {
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	older := s.insert("Older", "alice", base)
	newer := s.insert("Newer", "bob", base.Add(time.Minute))

	tasks, err := s.tasks.FindAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(tasks, 2)
	s.Equal(newer, tasks[0].ID)
	s.Equal(older, tasks[1].ID)
	s.Equal(time.UTC, tasks[0].CreatedAt.Location())
	s.True(base.Equal(tasks[1].CreatedAt))
}

func (s *MongoStoreTestSuite) TestUpdateStatusAndDelete() {
	ctx := context.Background()
	id := s.insert("A", "alice", time.Now().UTC())

	ok, err := s.tasks.UpdateStatus(ctx, id, domain.TaskStatusCompleted, time.Now().UTC())
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.tasks.UpdateStatus(ctx, "not-an-object-id", domain.TaskStatusCompleted, time.Now().UTC())
	s.NoError(err)
	s.False(ok)

	ok, err = s.tasks.Delete(ctx, id)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.tasks.Delete(ctx, id)
	s.NoError(err)
	s.False(ok)
}

func (s *MongoStoreTestSuite) TestCount() {
	ctx := context.Background()
	now := time.Now().UTC()
	a := s.insert("A", "alice", now)
	s.insert("B", "alice", now)
	s.insert("C", "bob", now)

	_, err := s.tasks.UpdateStatus(ctx, a, domain.TaskStatusCompleted, now)
	s.Require().NoError(err)

	total, err := s.tasks.Count(ctx, domain.TaskFilter{AssignedTo: "alice"})
	s.Require().NoError(err)
	s.Equal(int64(2), total)

	completed := domain.TaskStatusCompleted
	n, err := s.tasks.Count(ctx, domain.TaskFilter{AssignedTo: "alice", Status: &completed})
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *MongoStoreTestSuite) TestActivityInsert() {
	ctx := context.Background()
	err := s.activity.Insert(ctx, &domain.ActivityLog{
		UserID:    "alice",
		Action:    domain.ActionFileUpload,
		Details:   "Uploaded file: a.txt",
		Timestamp: time.Now().UTC(),
	})
	s.Require().NoError(err)

	n, err := s.db.Database().Collection(mongostore.ActivityLogCollection).
		CountDocuments(ctx, bson.D{{Key: "user_id", Value: "alice"}})
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}
