package sqlite_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/repository/sqlite"
	"github.com/vytor/wordflash/internal/testutil"
)

type WrongAnswerRepositorySuite struct {
	suite.Suite
	db   *sqlx.DB
	repo repository.WrongAnswerRepository
}

func (s *WrongAnswerRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewWrongAnswerRepository(s.db)
	testutil.SeedUser(s.T(), s.db, "u1", "UTC")
	testutil.SeedUser(s.T(), s.db, "u2", "UTC")
	for _, w := range []string{"a", "b", "c"} {
		testutil.SeedWord(s.T(), s.db, "u1", w, testutil.Epoch)
	}
	testutil.SeedWord(s.T(), s.db, "u2", "a", testutil.Epoch)
}

func (s *WrongAnswerRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *WrongAnswerRepositorySuite) push(userID, wordID, answer string) {
	s.Require().NoError(s.repo.Push(context.Background(), models.WrongAnswerEntry{
		UserID: userID, WordID: wordID, UserWrongAnswer: answer, AddedAt: testutil.Epoch,
	}))
}

func (s *WrongAnswerRepositorySuite) order(userID string) []string {
	entries, err := s.repo.List(context.Background(), userID)
	s.Require().NoError(err)
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.WordID
	}
	return ids
}

func (s *WrongAnswerRepositorySuite) TestPushKeepsInsertionOrder() {
	s.push("u1", "b", "x")
	s.push("u1", "a", "y")
	s.push("u1", "c", "z")
	s.push("u2", "a", "w")

	s.Equal([]string{"b", "a", "c"}, s.order("u1"))
	s.Equal([]string{"a"}, s.order("u2"))
}

func (s *WrongAnswerRepositorySuite) TestRepeatPushUpdatesInPlace() {
	ctx := context.Background()
	s.push("u1", "a", "first")
	s.push("u1", "b", "other")
	s.push("u1", "a", "second")

	s.Equal([]string{"a", "b"}, s.order("u1"), "repeat push keeps position")

	e, err := s.repo.Get(ctx, "u1", "a")
	s.Require().NoError(err)
	s.Equal("second", e.UserWrongAnswer)
	s.Equal(1, e.ReviewCount)
	s.True(e.AddedAt.Equal(testutil.Epoch))
}

func (s *WrongAnswerRepositorySuite) TestPeekRotateResolve() {
	ctx := context.Background()
	_, err := s.repo.Peek(ctx, "u1")
	s.ErrorIs(err, repository.ErrNotFound)

	s.push("u1", "a", "")
	s.push("u1", "b", "")
	s.push("u1", "c", "")

	head, err := s.repo.Peek(ctx, "u1")
	s.Require().NoError(err)
	s.Equal("a", head.WordID)

	s.Require().NoError(s.repo.Rotate(ctx, "u1", "a"))
	s.Equal([]string{"b", "c", "a"}, s.order("u1"))

	removed, err := s.repo.Resolve(ctx, "u1", "c")
	s.Require().NoError(err)
	s.True(removed)
	removed, err = s.repo.Resolve(ctx, "u1", "c")
	s.Require().NoError(err)
	s.False(removed)
	s.Equal([]string{"b", "a"}, s.order("u1"))

	s.ErrorIs(s.repo.Rotate(ctx, "u1", "c"), repository.ErrNotFound)
}

func (s *WrongAnswerRepositorySuite) TestIncrement() {
	ctx := context.Background()
	s.push("u1", "a", "")

	s.Require().NoError(s.repo.Increment(ctx, "u1", "a"))
	e, err := s.repo.Get(ctx, "u1", "a")
	s.Require().NoError(err)
	s.Equal(1, e.ReviewCount)

	s.ErrorIs(s.repo.Increment(ctx, "u1", "b"), repository.ErrNotFound)
}

func (s *WrongAnswerRepositorySuite) TestDeletingWordCascades() {
	s.push("u1", "a", "")
	words := sqlite.NewWordRepository(s.db)
	s.Require().NoError(words.Delete(context.Background(), "u1", "a"))

	s.Empty(s.order("u1"))
	_, err := sqlite.NewRecordRepository(s.db).Get(context.Background(), "u1", "a")
	s.ErrorIs(err, repository.ErrNotFound)
}

func TestWrongAnswerRepositorySuite(t *testing.T) {
	suite.Run(t, new(WrongAnswerRepositorySuite))
}
