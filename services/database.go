package services

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"cleanbot-backend/config"
	"cleanbot-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoDatabase - DB 미설정
var ErrNoDatabase = errors.New("database not configured")

// DB 인스턴스. 플러시 고루틴과 테스트가 동시에 읽고 바꾼다.
var db atomic.Pointer[gorm.DB]

// InitDatabase - 설정된 드라이버로 연결 후 마이그레이션
func InitDatabase(cfg config.DatabaseConfig) error {
	conn, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}
	db.Store(conn)
	return nil
}

// OpenDatabase - sqlite 또는 mysql 연결. driver 가 none 이면 nil 반환.
func OpenDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "none":
		log.Println("ℹ️ DB 비활성화 (DB_DRIVER=none)")
		return nil, nil
	case "mysql":
		if cfg.Host == "" || cfg.User == "" || cfg.Password == "" || cfg.Name == "" {
			return nil, fmt.Errorf("MySQL 설정이 모두 지정되지 않았습니다: MYSQL_HOST, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE")
		}
		port := cfg.Port
		if port == 0 {
			port = 3306 // 기본 포트
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, port, cfg.Name)
		dialector = mysql.Open(dsn)
		log.Printf("📡 연결 정보: %s:%s@%s:%d/%s", cfg.User, maskPassword(cfg.Password), cfg.Host, port, cfg.Name)
	case "sqlite", "":
		path := cfg.SQLitePath
		if path == "" {
			path = "cleanbot.db"
		}
		dialector = sqlite.Open(path)
		log.Printf("📡 SQLite 파일: %s", path)
	default:
		return nil, fmt.Errorf("지원하지 않는 DB 드라이버: %s", cfg.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("DB 연결 실패: %w", err)
	}

	// AutoMigrate - 테이블 자동 생성
	if err := conn.AutoMigrate(&models.RobotLog{}, &models.RunResult{}); err != nil {
		return nil, fmt.Errorf("마이그레이션 실패: %w", err)
	}

	log.Println("✅ DB 연결 및 마이그레이션 완료")
	return conn, nil
}

// GetDB - GORM 인스턴스 반환 (미설정이면 nil)
func GetDB() *gorm.DB {
	return db.Load()
}

// SetDB - 이미 열린 연결 주입 (테스트, 배치 실행)
func SetDB(conn *gorm.DB) {
	db.Store(conn)
}

// GetRecentLogs - 로봇의 최근 로그
func GetRecentLogs(robotID string, limit int) ([]models.RobotLog, error) {
	conn := GetDB()
	if conn == nil {
		return nil, ErrNoDatabase
	}
	var logs []models.RobotLog
	err := conn.Where("robot_id = ?", robotID).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// SaveRunResult - 실행 결과 저장
func SaveRunResult(result *models.RunResult) error {
	conn := GetDB()
	if conn == nil {
		return ErrNoDatabase
	}
	if err := conn.Create(result).Error; err != nil {
		return fmt.Errorf("실행 결과 저장 실패: %w", err)
	}
	return nil
}

// GetRecentRuns - 최근 실행 결과. batchID 가 비어 있으면 전체.
func GetRecentRuns(batchID string, limit int) ([]models.RunResult, error) {
	conn := GetDB()
	if conn == nil {
		return nil, ErrNoDatabase
	}
	query := conn.Order("id DESC")
	if batchID != "" {
		query = query.Where("batch_id = ?", batchID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var runs []models.RunResult
	err := query.Find(&runs).Error
	return runs, err
}

func maskPassword(password string) string {
	if len(password) <= 3 {
		return "***"
	}
	return password[:3] + "***"
}
