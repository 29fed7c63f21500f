package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"cleanbot-backend/models"
)

// CommentaryService - 로봇 이벤트 실시간 중계 서비스.
// 시뮬레이터 이벤트를 짧은 문장으로 바꿔 웹 클라이언트에 보낸다.
type CommentaryService struct {
	broadcastFunc func(models.WebSocketMessage)
	summaryFunc   func() models.RunSummary

	// 이벤트 타입별 마지막 해설 시각
	lastByType map[string]time.Time

	// 설정
	cooldown time.Duration // 같은 타입 해설 간격
	periodic time.Duration // 상황 요약 간격
	enabled  bool
	mu       sync.RWMutex

	// 이벤트 큐
	eventQueue chan CommentaryEvent
	stopChan   chan struct{}
	wg         sync.WaitGroup
}

// CommentaryEvent - 해설 이벤트
type CommentaryEvent struct {
	Type      string
	Priority  int // 높을수록 쿨다운을 무시
	Robot     models.RobotSnapshot
	Detail    string
	Timestamp time.Time
}

// 상황 요약 이벤트
const EventPeriodicUpdate = "periodic_update"

// 쿨다운 무시 기준 우선순위
const urgentPriority = 80

// 이벤트 우선순위. 목록에 없는 이벤트는 중계하지 않는다.
var eventPriority = map[string]int{
	models.EventDepleted:      100,
	models.EventRunComplete:   95,
	models.EventLowBattery:    90,
	models.EventCharging:      80,
	models.EventThreatAvoid:   70,
	models.EventIdle:          60,
	models.EventPlanFailed:    50,
	models.EventBoundaryTurn:  40,
	models.EventGoalSelected:  30,
	models.EventTeleport:      30,
	models.EventDebrisCollect: 20,
	EventPeriodicUpdate:       5,
}

// NewCommentaryService - 자동 중계 서비스 생성
func NewCommentaryService(broadcastFunc func(models.WebSocketMessage)) *CommentaryService {
	return &CommentaryService{
		broadcastFunc: broadcastFunc,
		lastByType:    make(map[string]time.Time),
		cooldown:      5 * time.Second,
		periodic:      30 * time.Second,
		enabled:       true,
		eventQueue:    make(chan CommentaryEvent, 50),
		stopChan:      make(chan struct{}),
	}
}

// SetSummarySource - 상황 요약에 쓸 실행 요약 제공자
func (cs *CommentaryService) SetSummarySource(fn func() models.RunSummary) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.summaryFunc = fn
}

// Start - 자동 중계 서비스 시작
func (cs *CommentaryService) Start() {
	log.Println("🎙️ 자동 중계 서비스 시작")
	cs.wg.Add(2)
	go cs.processEvents()
	go cs.periodicCommentary()
}

// Stop - 자동 중계 서비스 중지
func (cs *CommentaryService) Stop() {
	close(cs.stopChan)
	cs.wg.Wait()
	log.Println("🎙️ 자동 중계 서비스 중지")
}

// SetEnabled - 자동 중계 활성화/비활성화
func (cs *CommentaryService) SetEnabled(enabled bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.enabled = enabled
	if enabled {
		log.Println("🎙️ 자동 중계 활성화")
	} else {
		log.Println("🎙️ 자동 중계 비활성화")
	}
}

// SetCooldown - 해설 쿨다운 설정 (0 이면 모든 이벤트 중계)
func (cs *CommentaryService) SetCooldown(duration time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.cooldown = duration
	log.Printf("🎙️ 해설 쿨다운: %v", duration)
}

// Settings - 현재 활성화 여부와 쿨다운
func (cs *CommentaryService) Settings() (bool, time.Duration) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.enabled, cs.cooldown
}

// processEvents - 이벤트 큐 처리
func (cs *CommentaryService) processEvents() {
	defer cs.wg.Done()
	for {
		select {
		case event := <-cs.eventQueue:
			cs.handleEvent(event)
		case <-cs.stopChan:
			return
		}
	}
}

// periodicCommentary - 주기적 상황 요약
func (cs *CommentaryService) periodicCommentary() {
	defer cs.wg.Done()
	ticker := time.NewTicker(cs.periodic)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cs.QueueEvent(EventPeriodicUpdate, models.RobotSnapshot{}, "")
		case <-cs.stopChan:
			return
		}
	}
}

// QueueEvent - 이벤트 큐에 추가 (비차단, 큐가 차면 버림)
func (cs *CommentaryService) QueueEvent(eventType string, robot models.RobotSnapshot, detail string) {
	cs.mu.RLock()
	enabled := cs.enabled
	cs.mu.RUnlock()

	priority, ok := eventPriority[eventType]
	if !enabled || !ok {
		return
	}

	event := CommentaryEvent{
		Type:      eventType,
		Priority:  priority,
		Robot:     robot,
		Detail:    detail,
		Timestamp: time.Now(),
	}

	select {
	case cs.eventQueue <- event:
	default:
		log.Printf("⚠️ 이벤트 큐 가득 참, 이벤트 무시: %s", eventType)
	}
}

// handleEvent - 쿨다운 확인 후 해설 생성/전송
func (cs *CommentaryService) handleEvent(event CommentaryEvent) {
	cs.mu.Lock()
	last, seen := cs.lastByType[event.Type]
	if seen && event.Priority < urgentPriority && event.Timestamp.Sub(last) < cs.cooldown {
		cs.mu.Unlock()
		return
	}
	cs.lastByType[event.Type] = event.Timestamp
	summaryFunc := cs.summaryFunc
	cs.mu.Unlock()

	var text string
	if event.Type == EventPeriodicUpdate {
		if summaryFunc == nil {
			return
		}
		text = NarrateSummary(summaryFunc())
	} else {
		text = Narrate(event)
	}
	if text == "" {
		return
	}
	cs.broadcastCommentary(event, text)
}

// Narrate - 이벤트별 해설 문장
func Narrate(event CommentaryEvent) string {
	r := event.Robot
	switch event.Type {
	case models.EventGoalSelected:
		if r.Goal == nil {
			return ""
		}
		return fmt.Sprintf("🎯 %s, 셀 (%d,%d) 을 다음 청소 구역으로 정했습니다", r.Name, r.Goal.Col, r.Goal.Row)
	case models.EventPlanFailed:
		return fmt.Sprintf("🚧 %s, 목표까지 경로가 없어 직진으로 탐색합니다", r.Name)
	case models.EventBoundaryTurn:
		return fmt.Sprintf("↩️ %s, 벽 앞에서 제자리 회전 중", r.Name)
	case models.EventThreatAvoid:
		return fmt.Sprintf("🐈 %s, 위협을 피해 방향을 틉니다", r.Name)
	case models.EventLowBattery:
		return fmt.Sprintf("🔋 %s 배터리 %d, 충전소를 찾아갑니다", r.Name, r.Battery)
	case models.EventCharging:
		return fmt.Sprintf("⚡ %s 충전소 도착, 충전 시작 (배터리 %d)", r.Name, r.Battery)
	case models.EventDepleted:
		return fmt.Sprintf("🪫 %s 배터리 방전! 제자리에 멈췄습니다", r.Name)
	case models.EventDebrisCollect:
		return fmt.Sprintf("🧹 %s 먼지 수거 (누적 %d)", r.Name, r.Collected)
	case models.EventIdle:
		return fmt.Sprintf("✨ %s, 남은 먼지가 없어 대기합니다", r.Name)
	case models.EventTeleport:
		return fmt.Sprintf("📍 %s 이(가) (%.0f, %.0f) 로 옮겨졌습니다", r.Name, r.Pose.X, r.Pose.Y)
	case models.EventRunComplete:
		return "🏁 실행 종료: " + event.Detail
	default:
		return ""
	}
}

// NarrateSummary - 상황 요약 문장
func NarrateSummary(s models.RunSummary) string {
	return fmt.Sprintf("📊 %d틱 진행, 먼지 %d개 수거, %d개 남음", s.Ticks, s.TotalCollected, s.Remaining)
}

// broadcastCommentary - 해설 브로드캐스트
func (cs *CommentaryService) broadcastCommentary(event CommentaryEvent, text string) {
	if cs.broadcastFunc == nil {
		return
	}
	cs.broadcastFunc(models.NewMessage(models.MessageTypeCommentary, models.CommentaryData{
		EventType: event.Type,
		RobotID:   event.Robot.ID,
		Text:      text,
		Priority:  event.Priority,
	}))
	log.Printf("🎙️ 해설 전송: [%s] %s", event.Type, truncateString(text, 50))
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
