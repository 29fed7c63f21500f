package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"cleanbot-backend/models"
)

// LogBuffer - 로봇 로그 버퍼 (비동기 일괄 처리)
type LogBuffer struct {
	logs      []models.RobotLog
	mu        sync.Mutex
	flushSize int           // 일괄 저장 크기
	flushTime time.Duration // 자동 플러시 시간
	stopChan  chan struct{}
	done      chan struct{}
}

var (
	logBuffer   *LogBuffer
	warnNoLogOn sync.Once
)

// InitLogging - 로깅 시스템 초기화
func InitLogging(flushSize int, flushInterval time.Duration) {
	logBuffer = &LogBuffer{
		logs:      make([]models.RobotLog, 0, flushSize*2),
		flushSize: flushSize,
		flushTime: flushInterval,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}

	// 자동 플러시 고루틴 시작
	go logBuffer.autoFlush()

	log.Printf("✅ 로깅 시스템 초기화 완료 (flushSize: %d, flushInterval: %v)", flushSize, flushInterval)
}

// autoFlush - 주기적 로그 저장
func (lb *LogBuffer) autoFlush() {
	defer close(lb.done)

	ticker := time.NewTicker(lb.flushTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lb.Flush()
		case <-lb.stopChan:
			lb.Flush() // 종료 시 남은 로그 저장
			return
		}
	}
}

// AddLog - 로그 버퍼에 추가
func AddLog(entry models.RobotLog) {
	if logBuffer == nil {
		warnNoLogOn.Do(func() { log.Println("⚠️ 로깅 시스템이 초기화되지 않음, 로그를 버립니다") })
		return
	}

	logBuffer.mu.Lock()
	logBuffer.logs = append(logBuffer.logs, entry)
	size := len(logBuffer.logs)
	logBuffer.mu.Unlock()

	// 버퍼 크기가 차면 즉시 플러시
	if size >= logBuffer.flushSize {
		go logBuffer.Flush()
	}
}

// Pending - 아직 저장되지 않은 로그 수
func (lb *LogBuffer) Pending() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return len(lb.logs)
}

// Flush - 버퍼의 모든 로그를 DB에 저장. DB 가 없으면 버린다.
func (lb *LogBuffer) Flush() {
	lb.mu.Lock()
	if len(lb.logs) == 0 {
		lb.mu.Unlock()
		return
	}

	// 로그 복사 및 버퍼 초기화
	logsToSave := make([]models.RobotLog, len(lb.logs))
	copy(logsToSave, lb.logs)
	lb.logs = lb.logs[:0]
	lb.mu.Unlock()

	conn := GetDB()
	if conn == nil {
		return
	}
	if err := conn.CreateInBatches(logsToSave, 100).Error; err != nil {
		log.Printf("❌ 로그 저장 실패: %v", err)
		return
	}
	log.Printf("💾 로그 %d개 저장 완료", len(logsToSave))
}

// FlushLogs - 전역 버퍼 즉시 플러시
func FlushLogs() {
	if logBuffer != nil {
		logBuffer.Flush()
	}
}

// LogRobotEvent - 로봇 상태와 함께 이벤트 기록
func LogRobotEvent(runID string, tick int, eventType string, r *models.Robot, detail string) {
	entry := models.RobotLog{
		CreatedAt:  time.Now(),
		RunID:      runID,
		Tick:       tick,
		EventType:  eventType,
		RobotID:    r.ID,
		PositionX:  r.Pose.X,
		PositionY:  r.Pose.Y,
		Theta:      r.Pose.Theta,
		VL:         r.VL,
		VR:         r.VR,
		Battery:    r.Battery,
		State:      string(r.State),
		GoalCol:    -1,
		GoalRow:    -1,
		PathLength: len(r.Path),
		Collected:  r.Collected,
		Detail:     detail,
	}
	if r.Goal != nil {
		entry.GoalCol, entry.GoalRow = r.Goal.Col, r.Goal.Row
	}
	AddLog(entry)
}

// GetLogsByTimeRange - 시간 범위로 로그 조회
func GetLogsByTimeRange(robotID string, start, end time.Time, limit int) ([]models.RobotLog, error) {
	conn := GetDB()
	if conn == nil {
		return nil, ErrNoDatabase
	}
	var logs []models.RobotLog
	query := conn.Where("robot_id = ? AND created_at BETWEEN ? AND ?", robotID, start, end)

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Order("created_at DESC").Find(&logs).Error
	return logs, err
}

// GetLogsByEventType - 이벤트 타입별 로그 조회
func GetLogsByEventType(robotID string, eventType string, limit int) ([]models.RobotLog, error) {
	conn := GetDB()
	if conn == nil {
		return nil, ErrNoDatabase
	}
	var logs []models.RobotLog
	err := conn.Where("robot_id = ? AND event_type = ?", robotID, eventType).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// GetLogStats - 로그 통계
func GetLogStats(robotID string, hours int) (map[string]interface{}, error) {
	conn := GetDB()
	if conn == nil {
		return nil, ErrNoDatabase
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	var totalLogs int64
	if err := conn.Model(&models.RobotLog{}).
		Where("robot_id = ? AND created_at >= ?", robotID, since).
		Count(&totalLogs).Error; err != nil {
		return nil, err
	}

	// 이벤트 타입별 카운트
	var eventCounts []struct {
		EventType string
		Count     int64
	}
	if err := conn.Model(&models.RobotLog{}).
		Select("event_type, COUNT(*) as count").
		Where("robot_id = ? AND created_at >= ?", robotID, since).
		Group("event_type").
		Scan(&eventCounts).Error; err != nil {
		return nil, err
	}

	eventMap := make(map[string]int64)
	for _, ec := range eventCounts {
		eventMap[ec.EventType] = ec.Count
	}

	return map[string]interface{}{
		"total_logs":   totalLogs,
		"pending_logs": pendingLogs(),
		"event_counts": eventMap,
		"time_range":   fmt.Sprintf("Last %d hours", hours),
	}, nil
}

// pendingLogs - 버퍼에 남아 아직 저장되지 않은 로그 수
func pendingLogs() int {
	if logBuffer == nil {
		return 0
	}
	return logBuffer.Pending()
}

// StopLogging - 로깅 시스템 종료 (남은 로그 저장 후 반환)
func StopLogging() {
	if logBuffer == nil {
		return
	}
	close(logBuffer.stopChan)
	<-logBuffer.done
	logBuffer = nil
	log.Println("🛑 로깅 시스템 종료")
}
