package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// PaymentCleanup sweeps stale pending payments on a fixed schedule
type PaymentCleanup struct {
	service *PaymentService
	cron    *cron.Cron
}

// NewPaymentCleanup creates the sweep scheduler
func NewPaymentCleanup(service *PaymentService) *PaymentCleanup {
	return &PaymentCleanup{
		service: service,
		cron:    cron.New(),
	}
}

// Start registers the sweep and begins the schedule
func (c *PaymentCleanup) Start() error {
	_, err := c.cron.AddFunc("@every 1m", c.sweep)
	if err != nil {
		return err
	}
	c.cron.Start()
	log.Printf("🚀 Payment cleanup sweep started (every 1m)")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (c *PaymentCleanup) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
	log.Printf("✅ Payment cleanup sweep stopped")
}

func (c *PaymentCleanup) sweep() {
	removed, err := c.service.CleanupStale(context.Background())
	if err != nil {
		log.Printf("⚠️ Payment cleanup sweep failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("✅ Reclaimed %d stale pending payment(s)", removed)
	}
}
