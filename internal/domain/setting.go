package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_setting_repository.go -package mocks github.com/caseyos/caseyos/internal/domain SettingRepository

// Setting keys controlling the global send gates.
const (
	SettingEmergencyStop      = "emergency_stop"
	SettingAutoApproveEnabled = "auto_approve_enabled"
	SettingAllowRealSends     = "allow_real_sends"
	SettingModeDraftOnly      = "mode_draft_only"
	SettingTargetSegments     = "target_segments"
	SettingStrategicAccounts  = "strategic_accounts"
	SettingVoiceProfile       = "voice_profile"
)

// Setting is a named JSON value.
type Setting struct {
	Key       string    `json:"key"`
	Value     JSONMap   `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VoiceProfile is the named style block resolved into the draft prompt.
type VoiceProfile struct {
	ID            string   `json:"id"`
	Tone          string   `json:"tone"`
	SignOff       string   `json:"sign_off"`
	BannedPhrases []string `json:"banned_phrases"`
}

// SettingRepository defines settings persistence.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Set(ctx context.Context, key string, value JSONMap) error
	// GetBool reads a {"enabled": bool} setting, returning fallback when
	// the key is absent.
	GetBool(ctx context.Context, key string, fallback bool) (bool, error)
	SetBool(ctx context.Context, key string, enabled bool) error
	// GetStrings reads a {"values": [...]} setting.
	GetStrings(ctx context.Context, key string) ([]string, error)
}
