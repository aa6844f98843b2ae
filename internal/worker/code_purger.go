package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/btech-hub/backend/internal/service"
	"github.com/btech-hub/backend/pkg/logger"
)

type codePurger struct {
	otp service.OTP
}

func newCodePurger(otp service.OTP) *codePurger {
	return &codePurger{otp: otp}
}

func (p *codePurger) PurgeExpired(ctx context.Context) (int64, error) {
	removed, err := p.otp.PurgeExpired(ctx)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		logger.Info("expired verification codes purged", zap.Int64("removed", removed))
	}

	return removed, nil
}
