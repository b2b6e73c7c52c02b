package controllers

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	courseModels "codeclub/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Explicit error variants so callers can branch with errors.Is instead of
// inspecting exception types or strings.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

// PassThreshold is the fixed quiz pass percentage. Exactly 70 passes.
const PassThreshold = 70.0

// QuizResult is the outcome of scoring one quiz submission
type QuizResult struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
}

// ScoreQuizSubmission compares submitted answer indices against the stored
// correct answers. Pure computation, no side effects: the caller runs the
// completion cascade only on a pass.
func ScoreQuizSubmission(questions []courseModels.QuizQuestion, answers []int) (QuizResult, error) {
	if len(questions) == 0 {
		return QuizResult{}, fmt.Errorf("quiz has no questions: %w", ErrValidation)
	}
	if len(answers) != len(questions) {
		return QuizResult{}, fmt.Errorf("answer count mismatch: got %d answers for %d questions: %w",
			len(answers), len(questions), ErrValidation)
	}

	matches := 0
	for i, q := range questions {
		if answers[i] == q.CorrectAnswer {
			matches++
		}
	}

	percentage := float64(matches) / float64(len(questions)) * 100

	return QuizResult{
		Score:      matches,
		Total:      len(questions),
		Percentage: percentage,
		Passed:     percentage >= PassThreshold,
	}, nil
}

// CascadeResult reports what a chapter completion propagated to
type CascadeResult struct {
	LessonCompleted bool `json:"lesson_completed"`
	CourseCompleted bool `json:"course_completed"`
	BadgeAwarded    bool `json:"badge_awarded"`
}

// CompleteChapterForUser marks a chapter complete for a user and cascades
// the completion bottom-up: chapter -> lesson -> course -> badge. Both the
// quiz-submit and the explicit-complete endpoints call this one function.
//
// The whole cascade runs in a single transaction; any storage error rolls
// everything back and is propagated unmodified. Completion is monotonic
// and every write is an idempotent upsert, so re-running the cascade for
// an already-completed tree is a no-op. The composite unique indexes on
// the progress and badge tables guarantee that two racing completions can
// mark the course complete and award the badge at most once between them.
func CompleteChapterForUser(db *gorm.DB, userID, chapterID uint) (CascadeResult, error) {
	var result CascadeResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var chapter courseModels.Chapter
		if err := tx.Where("id = ? AND is_deleted = ?", chapterID, false).First(&chapter).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("chapter %d: %w", chapterID, ErrNotFound)
			}
			return err
		}

		// Resolve the static content tree up front. Orphaned chapters and
		// lessons are valid terminal states, not errors: the cascade just
		// stops at the highest level that exists.
		var lesson *courseModels.Lesson
		var courseRec *courseModels.Course

		var l courseModels.Lesson
		err := tx.Where("id = ? AND is_deleted = ?", chapter.LessonID, false).First(&l).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			lesson = &l
			var cr courseModels.Course
			err := tx.Where("id = ? AND is_deleted = ?", l.CourseID, false).First(&cr).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
			case err != nil:
				return err
			default:
				courseRec = &cr
			}
		}

		// Serialize concurrent completions within the same course tree for
		// this user: the sibling-completeness checks below are
		// read-modify-write. The unique indexes remain the backstop on
		// dialects without advisory locks.
		if courseRec != nil {
			release, err := acquireCascadeLock(tx, userID, courseRec.ID)
			if err != nil {
				return err
			}
			defer release()
		}

		if err := upsertChapterProgress(tx, userID, chapterID); err != nil {
			return err
		}

		if lesson == nil {
			return nil
		}

		lessonDone, err := allChaptersComplete(tx, userID, lesson.ID)
		if err != nil {
			return err
		}
		if !lessonDone {
			return nil
		}

		if err := upsertLessonProgress(tx, userID, lesson.ID); err != nil {
			return err
		}
		result.LessonCompleted = true

		if courseRec == nil {
			return nil
		}

		courseDone, err := allLessonsComplete(tx, userID, courseRec.ID)
		if err != nil {
			return err
		}
		if !courseDone {
			return nil
		}

		if err := upsertCourseProgress(tx, userID, courseRec.ID); err != nil {
			return err
		}
		result.CourseCompleted = true

		if courseRec.BadgeID != nil {
			awarded, err := awardBadgeIfAbsent(tx, userID, *courseRec.BadgeID)
			if err != nil {
				return err
			}
			result.BadgeAwarded = awarded
		}

		return nil
	})
	if err != nil {
		return CascadeResult{}, err
	}

	return result, nil
}

// upsertChapterProgress records the chapter completion. An existing
// completed row is left untouched so the original CompletedAt survives.
func upsertChapterProgress(tx *gorm.DB, userID, chapterID uint) error {
	var progress courseModels.UserChapterProgress
	err := lockForUpdate(tx).
		Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		First(&progress).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		now := time.Now()
		progress = courseModels.UserChapterProgress{
			UserID:      userID,
			ChapterID:   chapterID,
			Completed:   true,
			CompletedAt: &now,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
			DoNothing: true,
		}).Create(&progress).Error
	case err != nil:
		return err
	case !progress.Completed:
		now := time.Now()
		return tx.Model(&progress).Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": now,
		}).Error
	default:
		return nil
	}
}

func upsertLessonProgress(tx *gorm.DB, userID, lessonID uint) error {
	progress := courseModels.UserLessonProgress{
		UserID:    userID,
		LessonID:  lessonID,
		Completed: true,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(&progress).Error; err != nil {
		return err
	}
	// Existing row may predate completion; completion is monotonic so this
	// only ever flips false -> true
	return tx.Model(&courseModels.UserLessonProgress{}).
		Where("user_id = ? AND lesson_id = ? AND completed = ?", userID, lessonID, false).
		Update("completed", true).Error
}

func upsertCourseProgress(tx *gorm.DB, userID, courseID uint) error {
	progress := courseModels.UserCourseProgress{
		UserID:    userID,
		CourseID:  courseID,
		Completed: true,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&progress).Error; err != nil {
		return err
	}
	return tx.Model(&courseModels.UserCourseProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, false).
		Update("completed", true).Error
}

// awardBadgeIfAbsent inserts the (user, badge) association if the user
// does not already own the badge. Returns whether the badge was newly
// awarded. The unique index makes a racing duplicate insert a silent
// no-op, so this can never double-award.
func awardBadgeIfAbsent(tx *gorm.DB, userID, badgeID uint) (bool, error) {
	userBadge := courseModels.UserBadge{
		UserID:    userID,
		BadgeID:   badgeID,
		AwardCode: uuid.NewString(),
		AwardedAt: time.Now(),
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&userBadge)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// allChaptersComplete checks set equality between the lesson's chapters
// and the subset the user has completed
func allChaptersComplete(tx *gorm.DB, userID, lessonID uint) (bool, error) {
	var total int64
	if err := tx.Model(&courseModels.Chapter{}).
		Where("lesson_id = ? AND is_deleted = ?", lessonID, false).
		Count(&total).Error; err != nil {
		return false, err
	}
	if total == 0 {
		return false, nil
	}

	chapterIDs := tx.Model(&courseModels.Chapter{}).
		Select("id").
		Where("lesson_id = ? AND is_deleted = ?", lessonID, false)

	var completed int64
	if err := currentRead(tx).Model(&courseModels.UserChapterProgress{}).
		Where("user_id = ? AND completed = ? AND chapter_id IN (?)", userID, true, chapterIDs).
		Count(&completed).Error; err != nil {
		return false, err
	}

	return completed == total, nil
}

// allLessonsComplete checks set equality between the course's lessons and
// the subset the user has completed
func allLessonsComplete(tx *gorm.DB, userID, courseID uint) (bool, error) {
	var total int64
	if err := tx.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Count(&total).Error; err != nil {
		return false, err
	}
	if total == 0 {
		return false, nil
	}

	lessonIDs := tx.Model(&courseModels.Lesson{}).
		Select("id").
		Where("course_id = ? AND is_deleted = ?", courseID, false)

	var completed int64
	if err := currentRead(tx).Model(&courseModels.UserLessonProgress{}).
		Where("user_id = ? AND completed = ? AND lesson_id IN (?)", userID, true, lessonIDs).
		Count(&completed).Error; err != nil {
		return false, err
	}

	return completed == total, nil
}

// currentRead makes the progress counts locking reads on mysql.
// InnoDB's default REPEATABLE READ would serve the counts from the
// transaction snapshot and miss a sibling completion committed while
// this transaction waited on the cascade lock; a locking read returns
// the latest committed rows. Postgres forbids FOR UPDATE on aggregates
// and does not need it there: after the advisory lock is granted, READ
// COMMITTED already sees the other transaction's rows.
func currentRead(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// acquireCascadeLock takes an advisory lock keyed on (user, course) so
// cascades in the same course tree run one at a time. The postgres xact
// lock releases itself at commit or rollback; the mysql named lock is
// session-scoped, so the returned func must run before the connection
// goes back to the pool.
func acquireCascadeLock(tx *gorm.DB, userID, courseID uint) (func(), error) {
	noop := func() {}
	switch tx.Dialector.Name() {
	case "postgres":
		return noop, tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", int32(userID), int32(courseID)).Error
	case "mysql":
		name := fmt.Sprintf("cascade:%d:%d", userID, courseID)
		var got sql.NullInt64
		if err := tx.Raw("SELECT GET_LOCK(?, ?)", name, 10).Scan(&got).Error; err != nil {
			return noop, err
		}
		// 0 = timeout, NULL = error
		if !got.Valid || got.Int64 != 1 {
			return noop, fmt.Errorf("cascade lock %s not acquired: %w", name, ErrConflict)
		}
		return func() { tx.Exec("SELECT RELEASE_LOCK(?)", name) }, nil
	default:
		return noop, nil
	}
}

// lockForUpdate applies SELECT ... FOR UPDATE on dialects that support it.
// sqlite serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	switch tx.Dialector.Name() {
	case "postgres", "mysql":
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	default:
		return tx
	}
}
