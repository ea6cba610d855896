package main

import (
	"context"
	"fmt"
	"time"

	"github.com/siakadcloud/siakad-backend/internal/config"
	"github.com/siakadcloud/siakad-backend/internal/database"
	"github.com/siakadcloud/siakad-backend/internal/logger"
	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
	"github.com/siakadcloud/siakad-backend/internal/service"
)

// seedClass is one schedule row inserted by the demo seeder.
type seedClass struct {
	name      string
	grade     string
	day       string
	start     string
	end       string
	category  string
	teacherID *int
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	userRepo := repository.NewUserRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	materialRepo := repository.NewMaterialRepository(pool)

	authService := service.NewAuthService(cfg, rdb, userRepo)
	userService := service.NewUserService(userRepo, classRepo, authService, log)
	// Object storage is not needed for seeding; the class service only
	// touches it when deleting classes.
	classService := service.NewClassService(classRepo, userRepo, assignmentRepo, materialRepo, nil, log)

	fmt.Println("=== Seeding Demo Data ===")

	// Admin
	admin, err := userService.Create(ctx, &model.CreateUserRequest{
		Name:     "Admin Sekolah",
		Email:    "admin@sekolah.sch.id",
		Password: "admin12345",
		Role:     model.RoleAdmin,
	})
	if err != nil {
		fmt.Printf("Skipping admin: %v\n", err)
	} else {
		fmt.Printf("Created admin with ID: %d\n", admin.ID)
	}

	// Teachers
	teacherNames := []string{"Pak Budi Santoso", "Bu Siti Aminah", "Pak Joko Susilo"}
	teacherIDs := make([]int, 0, len(teacherNames))
	for i, name := range teacherNames {
		teacher, err := userService.Create(ctx, &model.CreateUserRequest{
			Name:     name,
			Email:    fmt.Sprintf("guru%d@sekolah.sch.id", i+1),
			Password: "guru12345",
			Role:     model.RoleTeacher,
		})
		if err != nil {
			fmt.Printf("Skipping teacher %s: %v\n", name, err)
			continue
		}
		teacherIDs = append(teacherIDs, teacher.ID)
	}
	fmt.Printf("Created %d teachers\n", len(teacherIDs))

	// Students across grades and majors
	studentNames := []string{
		"Andi Pratama", "Rina Wati", "Ayu Lestari", "Dodi Kusuma", "Eka Putri",
		"Fahri Hamzah", "Gita Savitri", "Hendra Gunawan", "Ika Sari", "Lukman Hakim",
		"Maya Septiana", "Nanda Pratama", "Putri Dian", "Rafi Ahmad", "Toni Setiawan",
		"Vina Panduwinata", "Wahyu Hidayat", "Yudi Pratama", "Zaki Anwar", "Alifia Zahra",
		"Bagas Saputra", "Citra Kirana", "Dimas Anggara", "Elisa Novita", "Fikri Maulana",
		"Hani Hanifah", "Iqbal Ramadhan", "Jasmine Azzahra", "Kevin Sanjaya", "Larasati Dewi",
	}
	grades := []string{"X", "XI", "XII"}
	majors := []string{"IPA", "IPS"}

	studentCount := 0
	for i, name := range studentNames {
		_, err := userService.Create(ctx, &model.CreateUserRequest{
			Name:       name,
			Email:      fmt.Sprintf("siswa%d@sekolah.sch.id", i+1),
			Password:   "siswa12345",
			Role:       model.RoleStudent,
			GradeLevel: grades[i%len(grades)],
			Major:      majors[i%len(majors)],
		})
		if err != nil {
			fmt.Printf("Skipping student %s: %v\n", name, err)
			continue
		}
		studentCount++
	}
	fmt.Printf("Created %d students\n", studentCount)

	// Classes. Students created above are enrolled automatically when each
	// class is created, and conflicting rows are reported and skipped.
	teacherAt := func(i int) *int {
		if len(teacherIDs) == 0 {
			return nil
		}
		id := teacherIDs[i%len(teacherIDs)]
		return &id
	}
	seedClasses := []seedClass{
		{"Matematika Wajib X", "X", "Senin", "07:00", "08:30", "Wajib", teacherAt(0)},
		{"Bahasa Indonesia X", "X", "Senin", "08:30", "10:00", "Wajib", teacherAt(1)},
		{"Fisika X", "X", "Selasa", "07:00", "08:30", "IPA", teacherAt(2)},
		{"Ekonomi X", "X", "Selasa", "07:00", "08:30", "IPS", teacherAt(0)},
		{"Matematika Wajib XI", "XI", "Senin", "07:00", "08:30", "Wajib", teacherAt(1)},
		{"Kimia XI", "XI", "Rabu", "09:00", "10:30", "IPA", teacherAt(2)},
		{"Sosiologi XI", "XI", "Rabu", "09:00", "10:30", "IPS", teacherAt(0)},
		{"Bahasa Inggris XII", "XII", "Kamis", "07:00", "08:30", "Wajib", teacherAt(1)},
		{"Biologi XII", "XII", "Jumat", "07:00", "08:30", "IPA", teacherAt(2)},
		{"Geografi XII", "XII", "Jumat", "07:00", "08:30", "IPS", teacherAt(0)},
	}

	classCount := 0
	for _, sc := range seedClasses {
		_, err := classService.Create(ctx, &model.ClassRequest{
			Name:       sc.name,
			GradeLevel: sc.grade,
			Day:        sc.day,
			StartTime:  sc.start,
			EndTime:    sc.end,
			Category:   sc.category,
			TeacherID:  sc.teacherID,
		})
		if err != nil {
			fmt.Printf("Skipping class %s: %v\n", sc.name, err)
			continue
		}
		classCount++
	}
	fmt.Printf("Created %d classes\n", classCount)

	fmt.Println("\nSeed completed!")
}
