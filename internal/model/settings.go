package model

import "fmt"

// Settings keys.
const (
	SettingUploaderAPIKey        = "uploader_api_key"
	SettingUploaderBaseURL       = "uploader_url_base"
	SettingShouldCopyAfterUpload = "should_copy_after_upload"
	SettingVRChatAuthCookie      = "vrchat_auth_cookie"
)

// Setting is a setting key with its value.
type Setting struct {
	Key   string
	Value string
}

// DefaultUploaderBaseURL is the uploader used when none has been set.
const DefaultUploaderBaseURL = "https://s2v-upload.superneko.net"

// SettingKeys are all the known settings keys.
var SettingKeys = []string{
	SettingUploaderAPIKey,
	SettingUploaderBaseURL,
	SettingShouldCopyAfterUpload,
	SettingVRChatAuthCookie,
}

// SettingDefaults are the values of the settings that have a default.
var SettingDefaults = map[string]string{
	SettingUploaderBaseURL:       DefaultUploaderBaseURL,
	SettingShouldCopyAfterUpload: "true",
}

// IsSecretSetting returns true for settings that hold credentials.
func IsSecretSetting(key string) bool {
	return key == SettingUploaderAPIKey || key == SettingVRChatAuthCookie
}

// ValidateSettingKey returns ErrNotValid for unknown settings keys.
func ValidateSettingKey(key string) error {
	for _, k := range SettingKeys {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("unknown setting %q: %w", key, ErrNotValid)
}
