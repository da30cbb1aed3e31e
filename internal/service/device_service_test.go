package service

import (
	"testing"
	"time"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/pkg/jwt"
)

func TestDeviceService_Register(t *testing.T) {
	service := NewDeviceService("device-test-secret", time.Hour)

	req := &domain.RegisterDeviceRequest{
		Name:       "Pixel 8",
		Platform:   "android",
		AppVersion: "1.2.0",
	}

	resp, err := service.Register(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.Device.ID == "" {
		t.Error("expected device ID to be generated")
	}
	if resp.Device.Name != req.Name {
		t.Errorf("expected name %s, got %s", req.Name, resp.Device.Name)
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("expected expires_in 3600, got %d", resp.ExpiresIn)
	}

	claims, err := jwt.ValidateToken(resp.AccessToken, "device-test-secret")
	if err != nil {
		t.Fatalf("expected issued token to validate, got %v", err)
	}
	if claims.DeviceID != resp.Device.ID {
		t.Errorf("expected token for %s, got %s", resp.Device.ID, claims.DeviceID)
	}
}

func TestDeviceService_RegisterIssuesDistinctIDs(t *testing.T) {
	service := NewDeviceService("device-test-secret", time.Hour)
	req := &domain.RegisterDeviceRequest{Name: "a", Platform: "cli", AppVersion: "1.0.0"}

	first, err := service.Register(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := service.Register(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first.Device.ID == second.Device.ID {
		t.Error("expected distinct device IDs")
	}
}
