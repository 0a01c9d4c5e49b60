package service

import (
	"context"
	"log"
	"time"

	"file-sharing-server/internal/ports"
)

// ReaperService : периодическая физическая чистка истёкших grant и
// share-ссылок. Исключительно гигиена хранилища: корректность авторизации
// обеспечивает фильтр по expires_at при каждом чтении реестра, на работу
// reaper она не опирается.
type ReaperService struct {
	ledger   ports.GrantLedger
	interval time.Duration
}

func NewReaperService(ledger ports.GrantLedger, interval time.Duration) *ReaperService {
	return &ReaperService{
		ledger:   ledger,
		interval: interval,
	}
}

// Run : блокирует до отмены ctx, запускать в отдельной горутине
func (s *ReaperService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("[ReaperService] чистка истёкших записей каждые %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("[ReaperService] остановлен")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ReaperService) sweep(ctx context.Context) {
	purged, err := s.ledger.PurgeExpired(ctx)
	if err != nil {
		log.Printf("[ReaperService] ошибка чистки: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("[ReaperService] удалено истёкших записей: %d", purged)
	}
}
