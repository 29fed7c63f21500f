package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"cleanbot-backend/config"
	"cleanbot-backend/models"

	"github.com/google/uuid"
)

// BatchRunner - 여러 번의 헤드리스 실행과 결과 집계
type BatchRunner struct {
	cfg     config.Config
	out     io.Writer
	batchID string
}

// NewBatchRunner - 배치 실행기 생성. out 에는 실행별 요약 줄이 출력된다.
func NewBatchRunner(cfg config.Config, out io.Writer) *BatchRunner {
	return &BatchRunner{
		cfg:     cfg,
		out:     out,
		batchID: uuid.New().String(),
	}
}

// BatchID - 이번 배치 ID
func (b *BatchRunner) BatchID() string {
	return b.batchID
}

// Run - runs 번 실행하고 csvPath 가 있으면 CSV 로 저장한다.
// 설정 시드가 0 이 아니면 실행마다 seed, seed+1, ... 을 쓴다.
func (b *BatchRunner) Run(ctx context.Context, runs int, csvPath string) ([]models.RunSummary, error) {
	summaries := make([]models.RunSummary, 0, runs)

	for i := 0; i < runs; i++ {
		runCfg := b.cfg
		if runCfg.Sim.Seed != 0 {
			runCfg.Sim.Seed += int64(i)
		}

		fmt.Fprintf(b.out, "Running simulation %d/%d...\n", i+1, runs)
		sim := NewSimulator(runCfg, nil)
		summary, err := sim.RunHeadless(ctx)
		if err != nil {
			return summaries, fmt.Errorf("run %d: %w", i+1, err)
		}
		summaries = append(summaries, summary)
		b.printSummary(summary)

		if GetDB() != nil {
			if err := SaveRunResult(b.toRunResult(summary)); err != nil {
				log.Printf("❌ %v", err)
			}
		}
	}

	if csvPath != "" {
		if err := b.saveCSV(csvPath, summaries); err != nil {
			return summaries, err
		}
		log.Printf("💾 결과 저장: %s", csvPath)
	}
	return summaries, nil
}

// printSummary - 마일스톤별 수거량과 최종 합계 출력
func (b *BatchRunner) printSummary(s models.RunSummary) {
	for _, m := range b.cfg.Sim.Milestones {
		if n, ok := s.Milestones[m]; ok {
			fmt.Fprintf(b.out, "Move %d: Collected %d dirt\n", m, n)
		}
	}
	fmt.Fprintf(b.out, "Total dirt collected in %d moves is %d\n", s.Ticks, s.TotalCollected)
}

// toRunResult - DB 행 변환
func (b *BatchRunner) toRunResult(s models.RunSummary) *models.RunResult {
	milestones, _ := json.Marshal(s.Milestones)
	return &models.RunResult{
		RunID:          s.RunID,
		BatchID:        b.batchID,
		Seed:           s.Seed,
		Robots:         b.cfg.Robot.Count,
		Brain:          s.Brain,
		TargetPolicy:   s.TargetPolicy,
		Heuristic:      b.cfg.Planner.Heuristic,
		Ticks:          s.Ticks,
		TotalCollected: s.TotalCollected,
		Remaining:      s.Remaining,
		MilestonesJSON: string(milestones),
	}
}

func (b *BatchRunner) saveCSV(path string, summaries []models.RunSummary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, summaries, b.cfg.Sim.Milestones); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV - Run, Total Dirt Collected, Dirt at <m> moves..., Brain, Target Policy 형식.
// 없는 마일스톤은 -1.
func WriteCSV(w io.Writer, summaries []models.RunSummary, milestones []int) error {
	cw := csv.NewWriter(w)

	header := []string{"Run", "Total Dirt Collected"}
	for _, m := range milestones {
		header = append(header, fmt.Sprintf("Dirt at %d moves", m))
	}
	header = append(header, "Brain", "Target Policy")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, s := range summaries {
		row := []string{strconv.Itoa(i + 1), strconv.Itoa(s.TotalCollected)}
		for _, m := range milestones {
			n, ok := s.Milestones[m]
			if !ok {
				n = -1
			}
			row = append(row, strconv.Itoa(n))
		}
		row = append(row, s.Brain, s.TargetPolicy)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
