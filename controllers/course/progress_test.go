package controllers

import (
	"fmt"
	"sync"
	"testing"

	"codeclub/models"
	courseModels "codeclub/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection so every goroutine sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&courseModels.Badge{},
		&courseModels.Course{},
		&courseModels.Lesson{},
		&courseModels.Chapter{},
		&courseModels.ChapterElement{},
		&courseModels.QuizForm{},
		&courseModels.QuizQuestion{},
		&courseModels.UserBadge{},
		&courseModels.UserChapterProgress{},
		&courseModels.UserLessonProgress{},
		&courseModels.UserCourseProgress{},
	)
	require.NoError(t, err)

	return db
}

type courseTree struct {
	course   courseModels.Course
	badge    courseModels.Badge
	lessons  []courseModels.Lesson
	chapters map[uint][]courseModels.Chapter // lessonID -> chapters
}

// seedCourse builds a published course with a badge and the given number
// of chapters per lesson, e.g. seedCourse(t, db, 2, 1) -> two lessons,
// the first with two chapters, the second with one.
func seedCourse(t *testing.T, db *gorm.DB, chaptersPerLesson ...int) courseTree {
	badge := courseModels.Badge{Name: "Starter", Description: "Finished the course"}
	require.NoError(t, db.Create(&badge).Error)

	course := courseModels.Course{
		Title:       "Intro",
		Difficulty:  "BEGINNER",
		BadgeID:     &badge.ID,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)

	tree := courseTree{
		course:   course,
		badge:    badge,
		chapters: make(map[uint][]courseModels.Chapter),
	}

	for li, n := range chaptersPerLesson {
		lesson := courseModels.Lesson{
			CourseID:   course.ID,
			Title:      fmt.Sprintf("Lesson %d", li+1),
			OrderIndex: li,
		}
		require.NoError(t, db.Create(&lesson).Error)
		tree.lessons = append(tree.lessons, lesson)

		for ci := 0; ci < n; ci++ {
			chapter := courseModels.Chapter{
				LessonID:   lesson.ID,
				Title:      fmt.Sprintf("Chapter %d.%d", li+1, ci+1),
				OrderIndex: ci,
			}
			require.NoError(t, db.Create(&chapter).Error)
			tree.chapters[lesson.ID] = append(tree.chapters[lesson.ID], chapter)
		}
	}

	return tree
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	var count int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&count).Error)
	return count
}

func TestCompleteChapterIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	tree := seedCourse(t, db, 2)
	userID := uint(1)
	chapter := tree.chapters[tree.lessons[0].ID][0]

	result, err := CompleteChapterForUser(db, userID, chapter.ID)
	require.NoError(t, err)
	assert.False(t, result.LessonCompleted)
	assert.False(t, result.CourseCompleted)
	assert.False(t, result.BadgeAwarded)

	var first courseModels.UserChapterProgress
	require.NoError(t, db.Where("user_id = ? AND chapter_id = ?", userID, chapter.ID).First(&first).Error)
	require.True(t, first.Completed)
	require.NotNil(t, first.CompletedAt)

	// Re-completing is a no-op: same row, original timestamp
	_, err = CompleteChapterForUser(db, userID, chapter.ID)
	require.NoError(t, err)

	var second courseModels.UserChapterProgress
	require.NoError(t, db.Where("user_id = ? AND chapter_id = ?", userID, chapter.ID).First(&second).Error)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CompletedAt.UnixNano(), second.CompletedAt.UnixNano())
	assert.Equal(t, int64(1), countRows(t, db, &courseModels.UserChapterProgress{}, "user_id = ?", userID))
}

func TestCompleteChapterUnknownChapter(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, 1)

	_, err := CompleteChapterForUser(db, 1, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(0), countRows(t, db, &courseModels.UserChapterProgress{}, "user_id = ?", 1))
}

func TestLessonCompletesOnlyWithAllChapters(t *testing.T) {
	db := setupTestDB(t)
	tree := seedCourse(t, db, 3, 1)
	userID := uint(1)
	lesson := tree.lessons[0]
	chapters := tree.chapters[lesson.ID]

	// Complete out of order: third, first, second
	for _, idx := range []int{2, 0} {
		result, err := CompleteChapterForUser(db, userID, chapters[idx].ID)
		require.NoError(t, err)
		assert.False(t, result.LessonCompleted)
	}
	assert.Equal(t, int64(0), countRows(t, db, &courseModels.UserLessonProgress{},
		"user_id = ? AND lesson_id = ? AND completed = ?", userID, lesson.ID, true))

	result, err := CompleteChapterForUser(db, userID, chapters[1].ID)
	require.NoError(t, err)
	assert.True(t, result.LessonCompleted)
	assert.False(t, result.CourseCompleted)
	assert.Equal(t, int64(1), countRows(t, db, &courseModels.UserLessonProgress{},
		"user_id = ? AND lesson_id = ? AND completed = ?", userID, lesson.ID, true))
}

func TestCourseCompletionAwardsBadgeOnce(t *testing.T) {
	db := setupTestDB(t)
	tree := seedCourse(t, db, 2, 1)
	userID := uint(1)

	var last courseModels.Chapter
	for _, lesson := range tree.lessons {
		for _, chapter := range tree.chapters[lesson.ID] {
			last = chapter
		}
	}

	var finalResult CascadeResult
	for _, lesson := range tree.lessons {
		for _, chapter := range tree.chapters[lesson.ID] {
			result, err := CompleteChapterForUser(db, userID, chapter.ID)
			require.NoError(t, err)
			finalResult = result
		}
	}

	assert.True(t, finalResult.LessonCompleted)
	assert.True(t, finalResult.CourseCompleted)
	assert.True(t, finalResult.BadgeAwarded)
	assert.Equal(t, int64(1), countRows(t, db, &courseModels.UserBadge{},
		"user_id = ? AND badge_id = ?", userID, tree.badge.ID))
	assert.Equal(t, int64(1), countRows(t, db, &courseModels.UserCourseProgress{},
		"user_id = ? AND course_id = ? AND completed = ?", userID, tree.course.ID, true))

	// Completing the last chapter again must not award a second badge
	result, err := CompleteChapterForUser(db, userID, last.ID)
	require.NoError(t, err)
	assert.False(t, result.BadgeAwarded)
	assert.Equal(t, int64(1), countRows(t, db, &courseModels.UserBadge{},
		"user_id = ? AND badge_id = ?", userID, tree.badge.ID))
}

func TestCourseWithoutBadgeCompletesSilently(t *testing.T) {
	db := setupTestDB(t)
	tree := seedCourse(t, db, 1)
	require.NoError(t, db.Model(&courseModels.Course{}).
		Where("id = ?", tree.course.ID).
		Update("badge_id", nil).Error)

	chapter := tree.chapters[tree.lessons[0].ID][0]
	result, err := CompleteChapterForUser(db, 1, chapter.ID)
	require.NoError(t, err)
	assert.True(t, result.CourseCompleted)
	assert.False(t, result.BadgeAwarded)
	assert.Equal(t, int64(0), countRows(t, db, &courseModels.UserBadge{}, "user_id = ?", 1))
}

func TestOrphanedChapterIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	userID := uint(1)

	chapter := courseModels.Chapter{LessonID: 9999, Title: "Floating"}
	require.NoError(t, db.Create(&chapter).Error)

	result, err := CompleteChapterForUser(db, userID, chapter.ID)
	require.NoError(t, err)
	assert.False(t, result.LessonCompleted)
	assert.Equal(t, int64(1), countRows(t, db, &courseModels.UserChapterProgress{},
		"user_id = ? AND chapter_id = ? AND completed = ?", userID, chapter.ID, true))
}

func TestConcurrentCompletionAwardsBadgeOnce(t *testing.T) {
	db := setupTestDB(t)
	tree := seedCourse(t, db, 2, 1)
	userID := uint(1)

	lesson1 := tree.lessons[0]
	lesson2 := tree.lessons[1]

	// Pre-complete one chapter so each goroutine finishes a different lesson
	_, err := CompleteChapterForUser(db, userID, tree.chapters[lesson1.ID][0].ID)
	require.NoError(t, err)

	racing := []uint{
		tree.chapters[lesson1.ID][1].ID,
		tree.chapters[lesson2.ID][0].ID,
	}

	results := make([]CascadeResult, len(racing))
	errs := make([]error, len(racing))

	var wg sync.WaitGroup
	for i, chapterID := range racing {
		wg.Add(1)
		go func(i int, chapterID uint) {
			defer wg.Done()
			results[i], errs[i] = CompleteChapterForUser(db, userID, chapterID)
		}(i, chapterID)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	awarded := 0
	completed := 0
	for _, r := range results {
		if r.BadgeAwarded {
			awarded++
		}
		if r.CourseCompleted {
			completed++
		}
	}
	assert.Equal(t, 1, awarded)
	assert.Equal(t, 1, completed)
	assert.Equal(t, int64(1), countRows(t, db, &courseModels.UserBadge{},
		"user_id = ? AND badge_id = ?", userID, tree.badge.ID))
	assert.Equal(t, int64(1), countRows(t, db, &courseModels.UserCourseProgress{},
		"user_id = ? AND course_id = ?", userID, tree.course.ID))
}

func TestScoreQuizSubmission(t *testing.T) {
	questions := make([]courseModels.QuizQuestion, 10)
	for i := range questions {
		questions[i] = courseModels.QuizQuestion{CorrectAnswer: i % 4}
	}

	correct := func(n int) []int {
		answers := make([]int, len(questions))
		for i := range answers {
			if i < n {
				answers[i] = questions[i].CorrectAnswer
			} else {
				answers[i] = (questions[i].CorrectAnswer + 1) % 4
			}
		}
		return answers
	}

	// Exactly on the threshold passes
	result, err := ScoreQuizSubmission(questions, correct(7))
	require.NoError(t, err)
	assert.Equal(t, 7, result.Score)
	assert.Equal(t, 10, result.Total)
	assert.InDelta(t, 70.0, result.Percentage, 0.001)
	assert.True(t, result.Passed)

	// Just below fails
	result, err = ScoreQuizSubmission(questions, correct(6))
	require.NoError(t, err)
	assert.InDelta(t, 60.0, result.Percentage, 0.001)
	assert.False(t, result.Passed)

	result, err = ScoreQuizSubmission(questions, correct(10))
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.InDelta(t, 100.0, result.Percentage, 0.001)
}

func TestScoreQuizSubmissionNoQuestions(t *testing.T) {
	_, err := ScoreQuizSubmission(nil, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ScoreQuizSubmission([]courseModels.QuizQuestion{}, []int{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestScoreQuizSubmissionAnswerCountMismatch(t *testing.T) {
	questions := make([]courseModels.QuizQuestion, 3)

	_, err := ScoreQuizSubmission(questions, []int{0, 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ScoreQuizSubmission(questions, []int{0, 1, 2, 3})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCascadeRollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)
	tree := seedCourse(t, db, 1)
	userID := uint(1)
	chapter := tree.chapters[tree.lessons[0].ID][0]

	// Breaking the badge table makes the final cascade step fail; nothing
	// written earlier in the same transaction may survive
	require.NoError(t, db.Migrator().DropTable(&courseModels.UserBadge{}))

	_, err := CompleteChapterForUser(db, userID, chapter.ID)
	require.Error(t, err)

	assert.Equal(t, int64(0), countRows(t, db, &courseModels.UserChapterProgress{}, "user_id = ?", userID))
	assert.Equal(t, int64(0), countRows(t, db, &courseModels.UserLessonProgress{}, "user_id = ?", userID))
	assert.Equal(t, int64(0), countRows(t, db, &courseModels.UserCourseProgress{}, "user_id = ?", userID))
}

// mysql's REPEATABLE READ serves plain counts from the transaction
// snapshot, so the sibling-completeness checks must be locking reads
// there. Built with DryRun so no server is needed.
func TestSiblingCountsAreLockingReadsOnMySQL(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "codeclub:codeclub@tcp(127.0.0.1:3306)/codeclub",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var n int64
	tx := currentRead(db).Model(&courseModels.UserChapterProgress{}).
		Where("user_id = ?", 1).Count(&n)
	assert.Contains(t, tx.Statement.SQL.String(), "FOR UPDATE")

	// sqlite keeps plain reads; its single writer serializes on its own
	lite := setupTestDB(t)
	liteTx := currentRead(lite.Session(&gorm.Session{DryRun: true})).
		Model(&courseModels.UserChapterProgress{}).
		Where("user_id = ?", 1).Count(&n)
	assert.NotContains(t, liteTx.Statement.SQL.String(), "FOR UPDATE")
}

func TestCascadeLockIsNoopOnSqlite(t *testing.T) {
	db := setupTestDB(t)
	err := db.Transaction(func(tx *gorm.DB) error {
		release, err := acquireCascadeLock(tx, 1, 1)
		require.NoError(t, err)
		require.NotNil(t, release)
		release()
		return nil
	})
	require.NoError(t, err)
}

// End-to-end walk of a small course: two lessons, a shared badge, and a
// re-completion in the middle that must change nothing.
func TestCascadeScenario(t *testing.T) {
	db := setupTestDB(t)
	tree := seedCourse(t, db, 2, 1)
	userID := uint(7)

	lesson1 := tree.lessons[0]
	lesson2 := tree.lessons[1]
	chapterA := tree.chapters[lesson1.ID][0]
	chapterB := tree.chapters[lesson1.ID][1]
	chapterC := tree.chapters[lesson2.ID][0]

	result, err := CompleteChapterForUser(db, userID, chapterA.ID)
	require.NoError(t, err)
	assert.False(t, result.LessonCompleted)

	// Re-completing A is a no-op
	result, err = CompleteChapterForUser(db, userID, chapterA.ID)
	require.NoError(t, err)
	assert.False(t, result.LessonCompleted)

	result, err = CompleteChapterForUser(db, userID, chapterB.ID)
	require.NoError(t, err)
	assert.True(t, result.LessonCompleted)
	assert.False(t, result.CourseCompleted)

	result, err = CompleteChapterForUser(db, userID, chapterC.ID)
	require.NoError(t, err)
	assert.True(t, result.LessonCompleted)
	assert.True(t, result.CourseCompleted)
	assert.True(t, result.BadgeAwarded)

	assert.Equal(t, int64(3), countRows(t, db, &courseModels.UserChapterProgress{}, "user_id = ?", userID))
	assert.Equal(t, int64(2), countRows(t, db, &courseModels.UserLessonProgress{},
		"user_id = ? AND completed = ?", userID, true))
	assert.Equal(t, int64(1), countRows(t, db, &courseModels.UserBadge{}, "user_id = ?", userID))
}
