package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/repository/sqlite"
	"github.com/vytor/wordflash/internal/testutil"
)

type SessionRepositorySuite struct {
	suite.Suite
	db   *sqlx.DB
	repo repository.SessionRepository
}

func (s *SessionRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSessionRepository(s.db)
	testutil.SeedUser(s.T(), s.db, "u1", "UTC")
}

func (s *SessionRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SessionRepositorySuite) session() models.PracticeSession {
	return models.PracticeSession{
		ID:        "s1",
		UserID:    "u1",
		TaskDate:  clock.MustDay("2024-01-10"),
		Status:    models.SessionActive,
		StartedAt: testutil.Epoch,
		Questions: []models.PracticeQuestion{
			{ID: "q1", WordID: "cat", Type: models.QuestionMultipleChoice, Prompt: "cat", CorrectAnswer: "B",
				Options: []models.Option{{ID: "A", Text: "perro"}, {ID: "B", Text: "gato"}}},
			{ID: "q2", WordID: "dog", Type: models.QuestionDictation, Prompt: "Write the word you hear", CorrectAnswer: "dog", AudioURL: "tts://dog"},
		},
	}
}

func (s *SessionRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, s.session()))

	got, err := s.repo.Get(ctx, "u1", "s1")
	s.Require().NoError(err)
	s.Equal(models.SessionActive, got.Status)
	s.Equal(clock.MustDay("2024-01-10"), got.TaskDate)
	s.Require().Len(got.Questions, 2)
	s.Equal("q1", got.Questions[0].ID)
	s.Equal([]models.Option{{ID: "A", Text: "perro"}, {ID: "B", Text: "gato"}}, got.Questions[0].Options)
	s.Nil(got.Questions[1].Options)
	s.Equal("tts://dog", got.Questions[1].AudioURL)

	_, err = s.repo.Get(ctx, "someone-else", "s1")
	s.ErrorIs(err, repository.ErrNotFound)

	byQuestion, err := s.repo.FindByQuestion(ctx, "u1", "q2")
	s.Require().NoError(err)
	s.Equal("s1", byQuestion.ID)

	_, err = s.repo.FindByQuestion(ctx, "u1", "nope")
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *SessionRepositorySuite) TestAttemptsKeepFirst() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, s.session()))

	first, err := s.repo.RecordAttempt(ctx, models.Attempt{SessionID: "s1", QuestionID: "q1", Answer: "A", Correct: false, SubmittedAt: testutil.Epoch})
	s.Require().NoError(err)
	s.True(first)
	again, err := s.repo.RecordAttempt(ctx, models.Attempt{SessionID: "s1", QuestionID: "q1", Answer: "B", Correct: true, SubmittedAt: testutil.Epoch})
	s.Require().NoError(err)
	s.False(again)

	attempts, err := s.repo.Attempts(ctx, "s1")
	s.Require().NoError(err)
	s.Require().Contains(attempts, "q1")
	s.Equal("A", attempts["q1"].Answer)
	s.False(attempts["q1"].Correct)
}

func (s *SessionRepositorySuite) TestCompleteOnceAndResult() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, s.session()))
	at := testutil.Epoch.Add(5 * time.Minute)

	ok, err := s.repo.Complete(ctx, "s1", at)
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.repo.Complete(ctx, "s1", at)
	s.Require().NoError(err)
	s.False(ok)

	result := models.PracticeResult{
		SessionID: "s1", UserID: "u1", TotalQuestions: 2, CorrectAnswers: 1, Accuracy: 0.5, Score: 50,
		DurationSeconds: 300, CompletedAt: at,
		Incorrect: []models.IncorrectAnswer{{QuestionID: "q2", WordID: "dog", UserAnswer: "dgo", CorrectAnswer: "dog"}},
	}
	s.Require().NoError(s.repo.InsertResult(ctx, result, clock.MustDay("2024-01-10")))

	got, err := s.repo.GetResult(ctx, "u1", "s1")
	s.Require().NoError(err)
	s.Equal(result.Incorrect, got.Incorrect)
	s.Equal(50, got.Score)
	s.True(got.CompletedAt.Equal(at))

	sess, err := s.repo.Get(ctx, "u1", "s1")
	s.Require().NoError(err)
	s.Equal(models.SessionCompleted, sess.Status)
	s.Require().NotNil(sess.CompletedAt)
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}
