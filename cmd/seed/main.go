package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sudosnarky/lifequest-app/internal/progression"
	"github.com/sudosnarky/lifequest-app/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

type seedUser struct {
	email    string
	username string
	name     string
	totalXP  int64
	catXP    [5]int64 // academics, fitness, creativity, exploration, wellness
}

type seedAchievement struct {
	title       string
	description string
	category    string
	requirement string
	xpReward    int64
}

// Wipes and repopulates the database with test fixtures. Levels and
// current XP are derived from total XP so the fixtures always agree with
// the leveling math.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	fmt.Println("clearing existing data...")
	if _, err := db.Exec(ctx,
		`TRUNCATE user_achievements, badges, quests, achievements, users RESTART IDENTITY CASCADE`); err != nil {
		log.Fatalf("truncate: %v", err)
	}

	hash, err := service.HashPassword("password123")
	if err != nil {
		log.Fatal(err)
	}

	users := []seedUser{
		{"alex@test.com", "alex_student", "Alex", 550, [5]int64{200, 150, 100, 50, 50}},
		{"jordan@test.com", "jordan_quest", "Jordan", 850, [5]int64{300, 200, 150, 100, 100}},
		{"sam@test.com", "sam_achiever", "Sam", 250, [5]int64{100, 50, 50, 25, 25}},
	}

	userIDs := make([]int64, len(users))
	for i, u := range users {
		level := progression.LevelForTotalXP(u.totalXP)
		currentXP := progression.CurrentXPWithinLevel(u.totalXP, level)
		err := db.QueryRow(ctx,
			`INSERT INTO users (email, username, password_hash, name, level, current_xp, total_xp,
			                    academics_xp, fitness_xp, creativity_xp, exploration_xp, wellness_xp)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 RETURNING id`,
			u.email, u.username, hash, u.name, level, currentXP, u.totalXP,
			u.catXP[0], u.catXP[1], u.catXP[2], u.catXP[3], u.catXP[4],
		).Scan(&userIDs[i])
		if err != nil {
			log.Fatalf("insert user %s: %v", u.username, err)
		}
	}
	fmt.Printf("created %d users\n", len(users))

	achievements := []seedAchievement{
		{"First Steps", "Complete your first academic quest", "academics", "Complete 1 academic quest", 25},
		{"Scholar", "Complete 10 academic quests", "academics", "Complete 10 academic quests", 50},
		{"Academic Master", "Reach 500 XP in academics", "academics", "Gain 500 academics XP", 100},
		{"Moving Forward", "Complete your first fitness quest", "fitness", "Complete 1 fitness quest", 25},
		{"Fitness Warrior", "Maintain a 7-day fitness streak", "fitness", "Complete fitness quests 7 days in a row", 75},
		{"Level Up!", "Reach level 5", "general", "Reach level 5", 50},
		{"Well Rounded", "Complete quests in all 5 categories", "general", "Complete at least 1 quest in each category", 100},
	}

	achievementIDs := make([]int64, len(achievements))
	for i, a := range achievements {
		err := db.QueryRow(ctx,
			`INSERT INTO achievements (title, description, category, requirement, xp_reward)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			a.title, a.description, a.category, a.requirement, a.xpReward,
		).Scan(&achievementIDs[i])
		if err != nil {
			log.Fatalf("insert achievement %q: %v", a.title, err)
		}
	}
	fmt.Printf("created %d achievements\n", len(achievements))

	dueDate := time.Now().Add(5 * 24 * time.Hour)
	questRows := [][]any{
		{userIDs[0], "Study for Math Exam", "Review chapters 5-8", "academics", "daily", "hard", int64(35), 0, nil},
		{userIDs[0], "Morning Jog", "30 minutes around campus", "fitness", "daily", "medium", int64(20), 3, nil},
		{userIDs[0], "Complete Art Project", "Finish the painting due Friday", "creativity", "weekly", "epic", int64(50), 0, &dueDate},
	}
	for _, q := range questRows {
		if _, err := db.Exec(ctx,
			`INSERT INTO quests (user_id, title, description, category, quest_type, difficulty, xp_reward, streak, due_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			q...); err != nil {
			log.Fatalf("insert quest %v: %v", q[1], err)
		}
	}
	fmt.Printf("created %d sample quests\n", len(questRows))

	if _, err := db.Exec(ctx,
		`INSERT INTO user_achievements (user_id, achievement_id) VALUES ($1, $2)`,
		userIDs[0], achievementIDs[0]); err != nil {
		log.Fatalf("unlock achievement: %v", err)
	}

	fmt.Println("seed completed")
	fmt.Println("test accounts: alex@test.com / jordan@test.com / sam@test.com (password123)")
}
