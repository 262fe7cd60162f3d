package srs_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/srs"
)

var (
	params = srs.DefaultParams()
	jan10  = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
)

func newRecord() models.LearningRecord {
	return srs.NewRecord("u1", "w1", jan10.AddDate(0, 0, -1), params)
}

func TestNewRecord(t *testing.T) {
	rec := newRecord()

	assert.Equal(t, 0, rec.IntervalDays)
	assert.Equal(t, 2.5, rec.EaseFactor)
	assert.Equal(t, models.MasteryLearning, rec.MasteryLevel)
	assert.Nil(t, rec.LastReviewDate)
	assert.Equal(t, rec.AddedDate, rec.NextReviewDate, "new words are due immediately")
	require.NoError(t, rec.Validate())
}

func TestApply_ThreeCorrectInARow(t *testing.T) {
	rec := newRecord()

	rec = srs.Apply(rec, srs.QualityPerfect, jan10, params)
	assert.Equal(t, 1, rec.ReviewCount)
	assert.Equal(t, 1, rec.IntervalDays)
	assert.Equal(t, models.MasteryLearning, rec.MasteryLevel)

	rec = srs.Apply(rec, srs.QualityPerfect, jan10.AddDate(0, 0, 1), params)
	assert.Equal(t, 2, rec.ReviewCount)
	assert.Equal(t, 6, rec.IntervalDays)
	assert.Equal(t, models.MasteryLearning, rec.MasteryLevel)

	easeBefore := rec.EaseFactor
	rec = srs.Apply(rec, srs.QualityPerfect, jan10.AddDate(0, 0, 7), params)
	assert.Equal(t, 3, rec.ReviewCount)
	assert.Equal(t, int(6*easeBefore+0.5), rec.IntervalDays)
	assert.Equal(t, models.MasteryFamiliar, rec.MasteryLevel)
}

func TestApply_CorrectThenIncorrectScenario(t *testing.T) {
	rec := models.LearningRecord{
		WordID:       "w1",
		IntervalDays: 6,
		EaseFactor:   2.5,
		ReviewCount:  2,
		MasteryLevel: models.MasteryFamiliar,
	}

	rec = srs.Apply(rec, srs.QualityPerfect, jan10, params)

	assert.Equal(t, 15, rec.IntervalDays)
	assert.Equal(t, "2024-01-25", rec.NextReviewDate.Format("2006-01-02"))
	assert.InDelta(t, 2.6, rec.EaseFactor, 1e-9)
	assert.Equal(t, 3, rec.ReviewCount)
	assert.Equal(t, models.MasteryFamiliar, rec.MasteryLevel)

	later := jan10.AddDate(0, 0, 15)
	rec = srs.Apply(rec, srs.QualityIncorrect, later, params)

	assert.Equal(t, 0, rec.IntervalDays)
	assert.Equal(t, later, rec.NextReviewDate)
	assert.InDelta(t, 2.4, rec.EaseFactor, 1e-9)
	assert.Equal(t, 4, rec.ReviewCount)
	assert.Equal(t, models.MasteryLearning, rec.MasteryLevel)
}

func TestApply_HintedQualityLowersEase(t *testing.T) {
	rec := models.LearningRecord{WordID: "w1", IntervalDays: 10, EaseFactor: 2.5, ReviewCount: 4, MasteryLevel: models.MasteryFamiliar}

	rec = srs.Apply(rec, srs.QualityHinted, jan10, params)

	assert.Equal(t, 25, rec.IntervalDays)
	assert.InDelta(t, 2.36, rec.EaseFactor, 1e-9)
	assert.Equal(t, models.MasteryMastered, rec.MasteryLevel, "interval >= 21 masters the word")
}

func TestApply_IncorrectAlwaysResets(t *testing.T) {
	states := []models.LearningRecord{
		{WordID: "a", IntervalDays: 0, EaseFactor: 1.3, ReviewCount: 0, MasteryLevel: models.MasteryLearning},
		{WordID: "b", IntervalDays: 120, EaseFactor: 2.7, ReviewCount: 12, MasteryLevel: models.MasteryMastered},
		{WordID: "c", IntervalDays: 6, EaseFactor: 1.4, ReviewCount: 2, MasteryLevel: models.MasteryLearning},
	}
	for _, st := range states {
		t.Run(st.WordID, func(t *testing.T) {
			out := srs.Apply(st, srs.QualityIncorrect, jan10, params)
			assert.Equal(t, 0, out.IntervalDays)
			assert.Equal(t, jan10, out.NextReviewDate)
			require.NotNil(t, out.LastReviewDate)
			assert.Equal(t, jan10, *out.LastReviewDate)
			assert.Equal(t, st.ReviewCount+1, out.ReviewCount)
			assert.Equal(t, models.MasteryLearning, out.MasteryLevel)
			assert.GreaterOrEqual(t, out.EaseFactor, params.MinEase)
		})
	}
}

func TestApply_RandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		rec := newRecord()
		now := jan10
		for step := 0; step < 50; step++ {
			q := srs.QualityIncorrect
			if rng.Intn(2) == 1 {
				q = srs.QualityPerfect
			}
			rec = srs.Apply(rec, q, now, params)

			require.GreaterOrEqual(t, rec.EaseFactor, params.MinEase)
			require.LessOrEqual(t, rec.EaseFactor, params.MaxEase)
			require.Equal(t, rec.LastReviewDate.AddDate(0, 0, rec.IntervalDays), rec.NextReviewDate)
			require.Equal(t, srs.Mastery(rec.ReviewCount, rec.IntervalDays, params), rec.MasteryLevel)
			if q == srs.QualityPerfect {
				require.True(t, rec.NextReviewDate.After(*rec.LastReviewDate), "correct answers schedule at least one day out")
			} else {
				require.Equal(t, 0, rec.IntervalDays)
			}
			require.NoError(t, rec.Validate())

			now = now.Add(time.Duration(rng.Intn(72)) * time.Hour)
		}
	}
}

func TestMastery(t *testing.T) {
	tests := []struct {
		name     string
		reviews  int
		interval int
		want     models.MasteryLevel
	}{
		{"fresh", 0, 0, models.MasteryLearning},
		{"two reviews", 2, 6, models.MasteryLearning},
		{"three reviews short interval", 3, 15, models.MasteryFamiliar},
		{"five reviews", 5, 20, models.MasteryFamiliar},
		{"long interval", 3, 21, models.MasteryMastered},
		{"six reviews", 6, 1, models.MasteryMastered},
		{"missed after many reviews", 7, 0, models.MasteryLearning},
		{"missed while familiar", 4, 0, models.MasteryLearning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, srs.Mastery(tt.reviews, tt.interval, params))
		})
	}
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, srs.DefaultParams().Validate())

	bad := srs.DefaultParams()
	bad.MaxEase = 1.0
	assert.Error(t, bad.Validate())

	bad = srs.DefaultParams()
	bad.InitialEase = 3.0
	assert.Error(t, bad.Validate())

	bad = srs.DefaultParams()
	bad.MasteredReviews = 1
	assert.Error(t, bad.Validate())
}
