package otp

import (
	"context"

	"github.com/ubora-rdc/ubora-auth/internal/logger"
	"github.com/ubora-rdc/ubora-auth/internal/phone"
)

// DryRun is a model.OtpGateway that sends nothing and accepts one fixed
// code. It is meant for development environments without SMS access.
type DryRun struct {
	code   string
	logger *logger.Logger
}

func NewDryRun(code string, logger *logger.Logger) *DryRun {
	return &DryRun{code: code, logger: logger}
}

func (d *DryRun) GenerateOtp(_ context.Context, p string) error {
	d.logger.Info("OTP dry-run: code not sent",
		"phone", phone.MaskForLog(p))
	return nil
}

func (d *DryRun) VerifyOtp(_ context.Context, _ string, code string) (bool, error) {
	return code != "" && code == d.code, nil
}
