package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sudosnarky/lifequest-app/internal/domain"
	"github.com/sudosnarky/lifequest-app/internal/repository"
	"github.com/sudosnarky/lifequest-app/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	entries, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(migDir, name))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", name, err)
		}
	}
}

func createTestUser(t *testing.T, db *pgxpool.Pool) *domain.User {
	t.Helper()
	tag := fmt.Sprintf("%d", time.Now().UnixNano())
	u := &domain.User{
		Email:        "it-" + tag + "@test.local",
		Username:     "it" + tag,
		PasswordHash: "x",
		Name:         "Test",
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestQuestComplete_GrantsStoredReward(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	svc := service.NewQuestService(db)
	q, err := svc.Create(ctx, user.ID, service.CreateQuestInput{
		Title:      "Morning run",
		Category:   domain.CategoryFitness,
		Type:       domain.QuestTypeDaily,
		Difficulty: domain.DifficultyEpic,
	})
	if err != nil {
		t.Fatalf("create quest: %v", err)
	}
	if q.XPReward != 50 {
		t.Fatalf("epic reward = %d, want 50", q.XPReward)
	}

	res, err := svc.Complete(ctx, user.ID, q.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.XPGained != 50 || res.NewTotalXP != 50 || res.NewLevel != 1 {
		t.Fatalf("got gained=%d total=%d level=%d", res.XPGained, res.NewTotalXP, res.NewLevel)
	}
	if !res.Quest.Completed || res.Quest.CompletedAt == nil {
		t.Fatalf("quest not marked completed: %+v", res.Quest)
	}
	if res.Quest.Streak != 1 {
		t.Fatalf("daily streak = %d, want 1", res.Quest.Streak)
	}

	got, err := repository.NewUserRepository(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.TotalXP != 50 || got.FitnessXP != 50 {
		t.Fatalf("user totals: total=%d fitness=%d", got.TotalXP, got.FitnessXP)
	}
}

func TestQuestComplete_SecondAttemptRejected(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	svc := service.NewQuestService(db)
	q, err := svc.Create(ctx, user.ID, service.CreateQuestInput{
		Title:      "Read a chapter",
		Category:   domain.CategoryAcademics,
		Type:       domain.QuestTypeWeekly,
		Difficulty: domain.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("create quest: %v", err)
	}

	if _, err := svc.Complete(ctx, user.ID, q.ID); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if _, err := svc.Complete(ctx, user.ID, q.ID); !errors.Is(err, service.ErrAlreadyCompleted) {
		t.Fatalf("second complete err = %v, want ErrAlreadyCompleted", err)
	}

	got, err := repository.NewUserRepository(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.TotalXP != 10 {
		t.Fatalf("total xp = %d, want 10 (single easy reward)", got.TotalXP)
	}
}

func TestQuestComplete_ConcurrentSingleWinner(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	svc := service.NewQuestService(db)
	q, err := svc.Create(ctx, user.ID, service.CreateQuestInput{
		Title:      "Hike the ridge",
		Category:   domain.CategoryExploration,
		Type:       domain.QuestTypeDaily,
		Difficulty: domain.DifficultyEpic,
	})
	if err != nil {
		t.Fatalf("create quest: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Complete(ctx, user.ID, q.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrAlreadyCompleted):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("got %d successes and %d rejections, want exactly 1 and 1", succeeded, rejected)
	}

	got, err := repository.NewUserRepository(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.TotalXP != 50 || got.ExplorationXP != 50 {
		t.Fatalf("user totals after race: total=%d exploration=%d, want 50/50", got.TotalXP, got.ExplorationXP)
	}

	final, err := svc.Get(ctx, user.ID, q.ID)
	if err != nil {
		t.Fatalf("get quest: %v", err)
	}
	if final.Streak != 1 {
		t.Fatalf("streak = %d, want 1 (single increment)", final.Streak)
	}
}

func TestGrant_LevelUpAcrossThreshold(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	svc := service.NewProgressionService(db)
	first, err := svc.Grant(ctx, user.ID, 60, nil)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if first.LeveledUp || first.NewLevel != 1 {
		t.Fatalf("unexpected level up: %+v", first)
	}

	second, err := svc.Grant(ctx, user.ID, 60, nil)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !second.LeveledUp || second.NewLevel != 2 {
		t.Fatalf("want level 2 after 120 xp, got %+v", second)
	}
	if second.NewCurrentXP != 20 {
		t.Fatalf("current xp = %d, want 20", second.NewCurrentXP)
	}
}

func TestAchievementUnlock_ExactlyOnce(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	var achievementID int64
	err := db.QueryRow(ctx,
		`INSERT INTO achievements (title, description, category, requirement, xp_reward)
		 VALUES ('It Begins', 'first unlock', 'general', '', 25)
		 RETURNING id`).Scan(&achievementID)
	if err != nil {
		t.Fatalf("insert achievement: %v", err)
	}

	svc := service.NewAchievementService(db)
	res, err := svc.Unlock(ctx, user.ID, achievementID)
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if res.XPGained != 25 {
		t.Fatalf("xp gained = %d, want 25", res.XPGained)
	}

	if _, err := svc.Unlock(ctx, user.ID, achievementID); !errors.Is(err, service.ErrAlreadyUnlocked) {
		t.Fatalf("second unlock err = %v, want ErrAlreadyUnlocked", err)
	}

	got, err := repository.NewUserRepository(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.TotalXP != 25 {
		t.Fatalf("total xp = %d, want 25 (single grant)", got.TotalXP)
	}
}

func TestResetDaily_StreakAsymmetry(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	svc := service.NewQuestService(db)
	kept, err := svc.Create(ctx, user.ID, service.CreateQuestInput{
		Title:      "Meditate",
		Category:   domain.CategoryWellness,
		Type:       domain.QuestTypeDaily,
		Difficulty: domain.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("create quest: %v", err)
	}
	broken, err := svc.Create(ctx, user.ID, service.CreateQuestInput{
		Title:      "Stretch",
		Category:   domain.CategoryWellness,
		Type:       domain.QuestTypeDaily,
		Difficulty: domain.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("create quest: %v", err)
	}

	// Give the broken quest a prior streak without completing it this cycle.
	if _, err := db.Exec(ctx, `UPDATE quests SET streak = 4 WHERE id = $1`, broken.ID); err != nil {
		t.Fatalf("set streak: %v", err)
	}

	if _, err := svc.Complete(ctx, user.ID, kept.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := svc.ResetDaily(ctx, user.ID); err != nil {
		t.Fatalf("reset daily: %v", err)
	}

	gotKept, err := svc.Get(ctx, user.ID, kept.ID)
	if err != nil {
		t.Fatalf("get quest: %v", err)
	}
	gotBroken, err := svc.Get(ctx, user.ID, broken.ID)
	if err != nil {
		t.Fatalf("get quest: %v", err)
	}

	if gotKept.Completed || gotBroken.Completed {
		t.Fatalf("dailies not reset: kept=%v broken=%v", gotKept.Completed, gotBroken.Completed)
	}
	if gotKept.Streak != 1 {
		t.Fatalf("completed daily streak = %d, want 1 (kept)", gotKept.Streak)
	}
	if gotBroken.Streak != 0 {
		t.Fatalf("missed daily streak = %d, want 0 (broken)", gotBroken.Streak)
	}
	if gotKept.CompletedAt != nil {
		t.Fatalf("completed_at not cleared on reset")
	}
}

func TestResetWeekly_LeavesDailiesAlone(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	svc := service.NewQuestService(db)
	daily, err := svc.Create(ctx, user.ID, service.CreateQuestInput{
		Title:      "Journal",
		Category:   domain.CategoryCreativity,
		Type:       domain.QuestTypeDaily,
		Difficulty: domain.DifficultyMedium,
	})
	if err != nil {
		t.Fatalf("create quest: %v", err)
	}
	weekly, err := svc.Create(ctx, user.ID, service.CreateQuestInput{
		Title:      "Visit a museum",
		Category:   domain.CategoryExploration,
		Type:       domain.QuestTypeWeekly,
		Difficulty: domain.DifficultyMedium,
	})
	if err != nil {
		t.Fatalf("create quest: %v", err)
	}

	if _, err := svc.Complete(ctx, user.ID, daily.ID); err != nil {
		t.Fatalf("complete daily: %v", err)
	}
	if _, err := svc.Complete(ctx, user.ID, weekly.ID); err != nil {
		t.Fatalf("complete weekly: %v", err)
	}

	if err := svc.ResetWeekly(ctx, user.ID); err != nil {
		t.Fatalf("reset weekly: %v", err)
	}

	gotDaily, err := svc.Get(ctx, user.ID, daily.ID)
	if err != nil {
		t.Fatalf("get quest: %v", err)
	}
	gotWeekly, err := svc.Get(ctx, user.ID, weekly.ID)
	if err != nil {
		t.Fatalf("get quest: %v", err)
	}

	if !gotDaily.Completed {
		t.Fatalf("weekly reset touched a daily quest")
	}
	if gotWeekly.Completed {
		t.Fatalf("weekly quest still completed after reset")
	}
}
