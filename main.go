package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cleanbot-backend/config"
	"cleanbot-backend/handlers"
	"cleanbot-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	batch := flag.Int("batch", 0, "헤드리스 실행 횟수 (0 이면 서버 모드)")
	csvPath := flag.String("csv", "results/simulation_results.csv", "배치 결과 CSV 경로")
	flag.Parse()

	// .env 파일 로드
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env 파일을 찾을 수 없습니다.")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("❌ 설정 로드 실패: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("❌ 환경 변수 적용 실패: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ 설정 검증 실패: %v", err)
	}

	// DB 연결 (선택)
	if err := services.InitDatabase(cfg.Database); err != nil {
		log.Printf("⚠️ DB 초기화 실패, 로그는 저장되지 않습니다: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *batch > 0 {
		runBatch(ctx, cfg, *batch, *csvPath)
		return
	}
	serve(ctx, cfg)
}

// runBatch - 헤드리스 배치 실행
func runBatch(ctx context.Context, cfg config.Config, runs int, csvPath string) {
	runner := services.NewBatchRunner(cfg, os.Stdout)
	log.Printf("🧪 배치 실행: %d회 (batch: %s)", runs, runner.BatchID())

	if _, err := runner.Run(ctx, runs, csvPath); err != nil {
		log.Fatalf("❌ 배치 실행 실패: %v", err)
	}
}

// serve - 웹 서버 + 시뮬레이터
func serve(ctx context.Context, cfg config.Config) {
	// 로깅 시스템 초기화
	services.InitLogging(cfg.Logging.FlushSize, cfg.Logging.FlushInterval)
	defer services.StopLogging() // 종료 시 남은 로그 저장

	go handlers.Manager.Start()

	sim := services.NewSimulator(cfg, handlers.Manager.BroadcastMessage)
	handlers.Sim = sim
	handlers.Planner = services.NewPathPlanner(cfg)

	// 자동 중계 서비스
	commentary := services.NewCommentaryService(handlers.Manager.BroadcastMessage)
	commentary.SetSummarySource(sim.Summary)
	commentary.SetCooldown(cfg.Commentary.Cooldown)
	commentary.Start()
	defer commentary.Stop()
	sim.SetCommentaryService(commentary)
	handlers.CommentarySvc = commentary

	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	handlers.SetupRoutes(app)

	go func() {
		<-ctx.Done()
		log.Println("🛑 종료 신호 수신")
		sim.Stop()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("🚀 서버 시작: http://localhost%s", addr)
	log.Printf("📡 WebSocket: ws://localhost%s/websocket/web", addr)
	log.Printf("🎮 시뮬레이션 API: POST http://localhost%s/api/simulation/start", addr)
	log.Printf("💾 로그 API: GET http://localhost%s/api/logs/*", addr)
	if err := app.Listen(addr); err != nil {
		log.Printf("❌ 서버 오류: %v", err)
	}
}
