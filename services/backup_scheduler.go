package services

import (
	"time"

	"github.com/restoran-pos/backend/utils"
)

// BackupScheduler menjalankan auto-backup harian dengan desain catch-up
// polling, bukan timer one-shot: cek sekali saat proses start (menutup kasus
// proses mati saat jam threshold), lalu tiap jam. Kalau jam lokal sudah
// melewati threshold dan file auto-backup hari ini belum ada, snapshot
// dibuat. Deadline yang terlewat sembuh sendiri pada cek berikutnya.
type BackupScheduler struct {
	Backup   *BackupService
	Hour     int           // threshold jam lokal, default 21
	Interval time.Duration // jeda antar cek, default satu jam
	StopChan chan struct{}

	// Now bisa di-override di test untuk mengunci jam dinding.
	Now func() time.Time
}

func NewBackupScheduler(backup *BackupService, hour int) *BackupScheduler {
	if hour <= 0 || hour > 23 {
		hour = 21
	}
	return &BackupScheduler{
		Backup:   backup,
		Hour:     hour,
		Interval: time.Hour,
		StopChan: make(chan struct{}),
		Now:      time.Now,
	}
}

// Start menjalankan scheduler di goroutine sendiri; tidak pernah memblok
// jalur request. Cek pertama dilakukan segera.
func (s *BackupScheduler) Start() {
	go func() {
		s.CheckOnce()

		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.CheckOnce()
			case <-s.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Printf("Backup scheduler started: hourly check, triggers after %02d:00", s.Hour)
}

func (s *BackupScheduler) Stop() {
	close(s.StopChan)
}

// CheckOnce mengevaluasi kebijakan sekali. Kegagalan snapshot (disk penuh,
// permission) hanya dicatat; state aplikasi tidak terpengaruh dan cek
// berikutnya mencoba lagi.
func (s *BackupScheduler) CheckOnce() {
	now := s.Now()
	if now.Hour() < s.Hour {
		return
	}

	created, err := s.Backup.RunNightly(now)
	if err != nil {
		utils.ErrorLogger.Printf("Auto-backup failed: %v", err)
		return
	}
	if !created {
		utils.InfoLogger.Printf("Auto-backup already exists for %s, skipping", now.Format("2006-01-02"))
	}
}
