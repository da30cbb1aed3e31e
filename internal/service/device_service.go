package service

import (
	"time"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/pkg/jwt"

	"github.com/google/uuid"
)

// DeviceService hands out device identities. Preference state is keyed by the
// device id carried in the issued token.
type DeviceService struct {
	jwtSecret  string
	expiration time.Duration
}

func NewDeviceService(jwtSecret string, expiration time.Duration) *DeviceService {
	return &DeviceService{
		jwtSecret:  jwtSecret,
		expiration: expiration,
	}
}

func (s *DeviceService) Register(req *domain.RegisterDeviceRequest) (*domain.RegisterDeviceResponse, error) {
	device := &domain.Device{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Platform:   req.Platform,
		AppVersion: req.AppVersion,
		CreatedAt:  time.Now(),
	}

	token, err := jwt.GenerateToken(device.ID, s.expiration, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &domain.RegisterDeviceResponse{
		Device:      device,
		AccessToken: token,
		ExpiresIn:   int64(s.expiration.Seconds()),
	}, nil
}
