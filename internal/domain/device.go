package domain

import "time"

type Device struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Platform   string    `json:"platform"`
	AppVersion string    `json:"app_version"`
	CreatedAt  time.Time `json:"created_at"`
}

type RegisterDeviceRequest struct {
	Name       string `json:"name" validate:"required,max=64"`
	Platform   string `json:"platform" validate:"required,oneof=android ios web cli"`
	AppVersion string `json:"app_version" validate:"required"`
}

type RegisterDeviceResponse struct {
	Device      *Device `json:"device"`
	AccessToken string  `json:"access_token"`
	ExpiresIn   int64   `json:"expires_in"`
}
